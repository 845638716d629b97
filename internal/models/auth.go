package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the access token payload shared with the backend.
type JWTClaims struct {
	UserID   int64    `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
