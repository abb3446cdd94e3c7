package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/groundbook/groundbook/internal/auth"
	"github.com/groundbook/groundbook/internal/config"
	"github.com/groundbook/groundbook/internal/models"
	pkglogger "github.com/groundbook/groundbook/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testAdminPassword = "s3cure-Admin!"

func newTestAdminService(t *testing.T, revoker TokenRevoker) (*AdminService, *auth.TokenManager) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.AdminConfig{
		Usernames:     []string{"wajahat", "hassan"},
		PasswordHash:  string(hash),
		JWTSecret:     "test-secret-key-for-admin-sessions-0123456789",
		SessionExpiry: 8 * time.Hour,
	}

	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionExpiry)
	auditLogger := pkglogger.NewAuditLogger(slog.Default())

	return NewAdminService(cfg, tokenManager, revoker, slog.Default(), auditLogger), tokenManager
}

func TestAdminService_Login_Success(t *testing.T) {
	svc, tokenManager := newTestAdminService(t, &MockTokenRevoker{})

	session, err := svc.Login(context.Background(), "wajahat", testAdminPassword, "203.0.113.10", "test-agent")
	require.NoError(t, err)

	assert.Equal(t, "wajahat", session.Username)
	assert.NotEmpty(t, session.Token)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), session.ExpiresAt, time.Minute)

	claims, err := tokenManager.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "wajahat", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID, "session tokens carry a jti for revocation")
}

func TestAdminService_Login_NormalizesUsername(t *testing.T) {
	svc, _ := newTestAdminService(t, &MockTokenRevoker{})

	session, err := svc.Login(context.Background(), "  Hassan  ", testAdminPassword, "203.0.113.10", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, "hassan", session.Username)
}

func TestAdminService_Login_WrongPassword(t *testing.T) {
	svc, _ := newTestAdminService(t, &MockTokenRevoker{})

	_, err := svc.Login(context.Background(), "wajahat", "wrong-password", "203.0.113.10", "test-agent")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAdminService_Login_UnknownUsername(t *testing.T) {
	svc, _ := newTestAdminService(t, &MockTokenRevoker{})

	_, err := svc.Login(context.Background(), "intruder", testAdminPassword, "203.0.113.10", "test-agent")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAdminService_Logout_RevokesToken(t *testing.T) {
	revoker := &MockTokenRevoker{}
	svc, tokenManager := newTestAdminService(t, revoker)

	session, err := svc.Login(context.Background(), "wajahat", testAdminPassword, "203.0.113.10", "test-agent")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), session.Token, "203.0.113.10"))

	claims, err := tokenManager.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, []string{claims.ID}, revoker.RevokedJTIs)
}

func TestAdminService_Logout_InvalidToken(t *testing.T) {
	revoker := &MockTokenRevoker{}
	svc, _ := newTestAdminService(t, revoker)

	err := svc.Logout(context.Background(), "not-a-token", "203.0.113.10")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.Empty(t, revoker.RevokedJTIs)
}
