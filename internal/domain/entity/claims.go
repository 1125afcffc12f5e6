package entity

import "github.com/golang-jwt/jwt/v5"

// Claims is the verified identity extracted from an access token.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}
