package model

import "github.com/golang-jwt/jwt"

// ViewerClaims are carried by dashboard access tokens
type ViewerClaims struct {
	Viewer string `json:"viewer"`
	jwt.StandardClaims
}
