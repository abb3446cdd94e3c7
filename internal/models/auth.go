package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// AdminClaims are the JWT claims carried by an admin session token
type AdminClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
