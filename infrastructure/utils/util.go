package utils

import (
	"time"

	"channel-insights/domain/model"
	"channel-insights/infrastructure/logger"

	"github.com/golang-jwt/jwt"
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

func GenerateToken(payload map[string]interface{}, secretKey string) (string, error) {
	var claims jwt.MapClaims = payload
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}

// GenerateViewerToken signs a dashboard access token valid for ttl
func GenerateViewerToken(viewer, secretKey string, ttl time.Duration) (string, error) {
	now := GetCurrentTime()
	return GenerateToken(map[string]interface{}{
		"viewer": viewer,
		"iss":    "channel-insights",
		"sub":    viewer,
		"iat":    now.Unix(),
		"exp":    now.Add(ttl).Unix(),
	}, secretKey)
}

// ParseViewerToken validates a token produced by GenerateViewerToken
func ParseViewerToken(tokenString, secretKey string) (*model.ViewerClaims, error) {
	var claims model.ViewerClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.NewValidationError("unexpected signing method", jwt.ValidationErrorSignatureInvalid)
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	return &claims, nil
}
