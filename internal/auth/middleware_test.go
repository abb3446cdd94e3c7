package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundbook/groundbook/internal/models"
)

type stubRevocationChecker struct {
	revoked bool
	err     error
	lastJTI string
}

func (s *stubRevocationChecker) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	s.lastJTI = jti
	return s.revoked, s.err
}

func adminRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin/grounds", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAdminMiddleware_MissingHeader(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	handler := AdminMiddleware(tm, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest(""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminMiddleware_MalformedHeader(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	handler := AdminMiddleware(tm, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/grounds", nil)
	req.Header.Set("Authorization", "Token abc123")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminMiddleware_InvalidToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	handler := AdminMiddleware(tm, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest("not-a-real-token"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminMiddleware_ValidToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	checker := &stubRevocationChecker{}

	token, _, err := tm.GenerateSessionToken("hassan")
	require.NoError(t, err)

	var gotClaims *models.AdminClaims
	handler := AdminMiddleware(tm, checker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := AdminFromContext(r.Context())
		require.True(t, ok)
		gotClaims = claims
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest(token))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "hassan", gotClaims.Username)
	assert.Equal(t, "admin", gotClaims.Role)
	assert.Equal(t, gotClaims.ID, checker.lastJTI)
}

func TestAdminMiddleware_RevokedToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	checker := &stubRevocationChecker{revoked: true}

	token, _, err := tm.GenerateSessionToken("hassan")
	require.NoError(t, err)

	handler := AdminMiddleware(tm, checker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest(token))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminMiddleware_RevocationCheckFailure(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	checker := &stubRevocationChecker{err: errors.New("database unavailable")}

	token, _, err := tm.GenerateSessionToken("hassan")
	require.NoError(t, err)

	handler := AdminMiddleware(tm, checker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest(token))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdminFromContext_Empty(t *testing.T) {
	_, ok := AdminFromContext(context.Background())
	assert.False(t, ok)
}
