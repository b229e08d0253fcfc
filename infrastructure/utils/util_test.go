package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewerTokenRoundTrip(t *testing.T) {
	token, err := GenerateViewerToken("analyst", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseViewerToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "analyst", claims.Viewer)
	assert.Equal(t, "channel-insights", claims.Issuer)
}

func TestParseViewerToken_Rejects(t *testing.T) {
	token, err := GenerateViewerToken("analyst", "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseViewerToken(token, "other-secret")
	assert.Error(t, err)

	expired, err := GenerateViewerToken("analyst", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseViewerToken(expired, "secret")
	var ve *jwt.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.NotZero(t, ve.Errors&jwt.ValidationErrorExpired)

	_, err = ParseViewerToken("not-a-token", "secret")
	assert.Error(t, err)
}

func TestGetCurrentTimeIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, GetCurrentTime().Location())
}
