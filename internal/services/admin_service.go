package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/groundbook/groundbook/internal/auth"
	"github.com/groundbook/groundbook/internal/config"
	"github.com/groundbook/groundbook/internal/models"
	pkgauth "github.com/groundbook/groundbook/pkg/auth"
	pkglogger "github.com/groundbook/groundbook/pkg/logger"
)

// TokenRevoker defines the interface for session revocation
type TokenRevoker interface {
	RevokeToken(ctx context.Context, jti, username string, expiresAt time.Time, reason string) error
}

// AdminSession is the payload returned to a freshly logged-in admin
type AdminSession struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminService authenticates admins against the static credential set.
// There are no admin rows in the database: usernames come from config and
// all of them share one bcrypt-hashed password.
type AdminService struct {
	cfg          config.AdminConfig
	tokenManager *auth.TokenManager
	revoker      TokenRevoker
	logger       *slog.Logger
	auditLogger  *pkglogger.AuditLogger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	cfg config.AdminConfig,
	tokenManager *auth.TokenManager,
	revoker TokenRevoker,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AdminService {
	return &AdminService{
		cfg:          cfg,
		tokenManager: tokenManager,
		revoker:      revoker,
		logger:       logger,
		auditLogger:  auditLogger,
	}
}

// Login checks the credential pair and issues a session token. The password
// comparison runs even for unknown usernames so response timing does not
// reveal which usernames exist.
func (s *AdminService) Login(ctx context.Context, username, password, ipAddress, userAgent string) (*AdminSession, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	known := false
	for _, u := range s.cfg.Usernames {
		if u == username {
			known = true
			break
		}
	}

	passwordErr := pkgauth.ComparePassword(s.cfg.PasswordHash, password)

	if !known || passwordErr != nil {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "admin_login",
			Username:      username,
			IPAddress:     ipAddress,
			UserAgent:     userAgent,
			Success:       false,
			FailureReason: "invalid credentials",
		})
		return nil, models.ErrUnauthorized
	}

	token, expiresAt, err := s.tokenManager.GenerateSessionToken(username)
	if err != nil {
		s.logger.Error("failed to issue admin session", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "admin_login",
		Username:  username,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Success:   true,
	})

	return &AdminSession{
		Token:     token,
		Username:  username,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout revokes the session token so it stops working before its natural
// expiry
func (s *AdminService) Logout(ctx context.Context, tokenString, ipAddress string) error {
	claims, err := s.tokenManager.ValidateToken(tokenString)
	if err != nil {
		return models.ErrUnauthorized
	}

	expiresAt := time.Now().Add(time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := s.revoker.RevokeToken(ctx, claims.ID, claims.Username, expiresAt, "logout"); err != nil {
		s.logger.Error("failed to revoke admin session",
			slog.String("username", claims.Username),
			slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "admin_logout",
		Username:  claims.Username,
		IPAddress: ipAddress,
		Success:   true,
	})

	return nil
}
