package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/groundbook/groundbook/internal/models"
)

// contextKey is a custom type for context keys
type contextKey string

// AdminContextKey is the key for storing admin claims in context
const AdminContextKey contextKey = "admin"

// TokenRevocationChecker defines the interface for checking if tokens are revoked
type TokenRevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// AdminMiddleware validates admin session tokens, checks revocation status,
// and injects claims into the request context. Revocation check failures
// fail closed: a session whose status cannot be confirmed is denied.
func AdminMiddleware(tm *TokenManager, revocationChecker TokenRevocationChecker) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := tm.ValidateToken(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			if claims.Role != "admin" {
				http.Error(w, "admin access required", http.StatusForbidden)
				return
			}

			if revocationChecker != nil && claims.ID != "" {
				revoked, err := revocationChecker.IsTokenRevoked(r.Context(), claims.ID)
				if err != nil {
					http.Error(w, "unable to verify session status", http.StatusServiceUnavailable)
					return
				}
				if revoked {
					http.Error(w, "session has been revoked", http.StatusUnauthorized)
					return
				}
			}

			ctx := context.WithValue(r.Context(), AdminContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminFromContext retrieves admin claims stored by AdminMiddleware
func AdminFromContext(ctx context.Context) (*models.AdminClaims, bool) {
	claims, ok := ctx.Value(AdminContextKey).(*models.AdminClaims)
	return claims, ok
}
