package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/groundbook/groundbook/internal/auth"
	"github.com/groundbook/groundbook/internal/config"
	"github.com/groundbook/groundbook/internal/database"
	"github.com/groundbook/groundbook/internal/handlers"
	middlewareCustom "github.com/groundbook/groundbook/internal/middleware"
	"github.com/groundbook/groundbook/internal/otp"
	"github.com/groundbook/groundbook/internal/routes"
	"github.com/groundbook/groundbook/internal/services"
	pkghttp "github.com/groundbook/groundbook/pkg/http"
	pkglogger "github.com/groundbook/groundbook/pkg/logger"
)

// AdminPassword is the shared admin password for test servers
const AdminPassword = "integration-Admin-9!"

// CapturingCodeSender records delivered OTP codes instead of sending email
type CapturingCodeSender struct {
	mu    sync.Mutex
	codes map[string]string
}

// NewCapturingCodeSender creates an empty capturing sender
func NewCapturingCodeSender() *CapturingCodeSender {
	return &CapturingCodeSender{codes: make(map[string]string)}
}

// Deliver records the code for later retrieval
func (s *CapturingCodeSender) Deliver(ctx context.Context, email, code, purposeText string, expiryMinutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = code
	return nil
}

// CodeFor returns the last code delivered to email
func (s *CapturingCodeSender) CodeFor(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[email]
}

// TestServer wraps httptest.Server with the full application wired against
// a real database and a captured email channel
type TestServer struct {
	Server     *httptest.Server
	DB         *database.DB
	CodeSender *CapturingCodeSender
	OTPService *otp.Service
	Config     *config.Config
}

// NewTestServer initializes a complete HTTP server with real database and
// captured OTP delivery
func NewTestServer(db *database.DB) (*TestServer, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	cfg := &config.Config{
		Admin: config.AdminConfig{
			Usernames:       []string{"admin"},
			PasswordHash:    string(passwordHash),
			JWTSecret:       "integration-test-secret-0123456789abcdef",
			SessionExpiry:   8 * time.Hour,
			CleanupInterval: 1 * time.Hour,
		},
		Server: config.ServerConfig{
			Port:           "0",
			Env:            "test",
			AllowedOrigins: []string{},
			TrustedProxies: []string{},
		},
	}

	groundRepo, bookingRepo, revokeRepo := InitializeRepositories(db)

	codeSender := NewCapturingCodeSender()
	otpService := otp.NewService(codeSender, logger)

	tokenManager := auth.NewTokenManager(cfg.Admin.JWTSecret, cfg.Admin.SessionExpiry)
	auditLogger := pkglogger.NewAuditLogger(logger)

	groundService := services.NewGroundService(groundRepo, otpService, logger)
	bookingService := services.NewBookingService(bookingRepo, groundRepo, otpService, &NullProofStore{}, logger)
	analyticsService := services.NewAnalyticsService(bookingRepo, logger)
	pricingService := services.NewPricingService(groundRepo, bookingRepo, logger)
	adminService := services.NewAdminService(cfg.Admin, tokenManager, revokeRepo, logger, auditLogger)

	ipConfig := &pkghttp.IPConfig{}
	otpHandler := handlers.NewOTPHandler(otpService)
	groundHandler := handlers.NewGroundHandler(groundService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	adminHandler := handlers.NewAdminHandler(adminService, groundService, bookingService, analyticsService, pricingService, ipConfig)

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(chiMiddleware.Recoverer)

	healthCheck := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	routes.RegisterRoutes(router, otpHandler, groundHandler, bookingHandler, adminHandler, tokenManager, revokeRepo, healthCheck)

	return &TestServer{
		Server:     httptest.NewServer(router),
		DB:         db,
		CodeSender: codeSender,
		OTPService: otpService,
		Config:     cfg,
	}, nil
}

// Close shuts the test server down
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// NullProofStore discards uploads and returns a fixed URL
type NullProofStore struct{}

func (s *NullProofStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if body != nil {
		io.Copy(io.Discard, body)
	}
	return "https://proofs.test.local/" + key, nil
}

// PostJSON sends a JSON POST to the test server and decodes the response
// into target (when non-nil). Returns the response status code.
func (ts *TestServer) PostJSON(path string, body interface{}, target interface{}) (int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	resp, err := http.Post(ts.Server.URL+path, "application/json", &buf)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// GetJSON sends a GET to the test server, with optional bearer token, and
// decodes the response into target
func (ts *TestServer) GetJSON(path, token string, target interface{}) (int, error) {
	req, err := http.NewRequest("GET", ts.Server.URL+path, nil)
	if err != nil {
		return 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// Do sends an authenticated request with a JSON body and decodes the response
func (ts *TestServer) Do(method, path, token string, body interface{}, target interface{}) (int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}
