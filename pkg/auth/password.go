package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost per OWASP guidance; the admin credential is long-lived and
// hashed once at deploy time, so the extra work factor is affordable.
const BcryptCost = 14

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// ComparePassword compares a bcrypt hash against a candidate password
func ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
