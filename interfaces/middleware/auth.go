package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"channel-insights/infrastructure/logger"
	"channel-insights/infrastructure/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// Auth guards dashboard routes with a viewer token taken from the
// Authorization header or, for browser links, the token query parameter.
// An empty secret disables the check.
func Auth(secretKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if secretKey == "" {
			ctx.Next()
			return
		}

		tokenString := bearerToken(ctx.GetHeader("Authorization"))
		if tokenString == "" {
			tokenString = ctx.Query("token")
		}
		if tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Missing token"})
			return
		}

		claims, err := utils.ParseViewerToken(tokenString, secretKey)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Rejected dashboard token")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": reason(err)})
			return
		}
		ctx.Set("viewer", claims.Viewer)
		ctx.Next()
	}
}

func bearerToken(header string) string {
	auth := strings.SplitN(header, "Bearer ", 2)
	if len(auth) != 2 {
		return ""
	}
	return strings.TrimSpace(auth[1])
}

func reason(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return "That's not even a token"
		} else if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			// Token is either expired or not active yet
			return "Timing is everything"
		}
	}
	return fmt.Sprintf("Couldn't handle this token: %v", err)
}
