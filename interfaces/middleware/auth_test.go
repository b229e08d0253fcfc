package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"channel-insights/infrastructure/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", Auth(secret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("viewer"))
	})
	return r
}

func TestAuth(t *testing.T) {
	token, err := utils.GenerateViewerToken("analyst", "secret", time.Hour)
	require.NoError(t, err)
	expired, err := utils.GenerateViewerToken("analyst", "secret", -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		secret   string
		header   string
		query    string
		wantCode int
		wantBody string
	}{
		{name: "disabled", secret: "", wantCode: http.StatusOK},
		{name: "missing token", secret: "secret", wantCode: http.StatusUnauthorized, wantBody: "Missing token"},
		{name: "bearer header", secret: "secret", header: "Bearer " + token, wantCode: http.StatusOK, wantBody: "analyst"},
		{name: "query token", secret: "secret", query: "?token=" + token, wantCode: http.StatusOK, wantBody: "analyst"},
		{name: "malformed", secret: "secret", header: "Bearer abc", wantCode: http.StatusUnauthorized, wantBody: "That's not even a token"},
		{name: "expired", secret: "secret", header: "Bearer " + expired, wantCode: http.StatusUnauthorized, wantBody: "Timing is everything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			newRouter(tt.secret).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
