package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/groundbook/groundbook/internal/auth"
	"github.com/groundbook/groundbook/internal/background"
	"github.com/groundbook/groundbook/internal/config"
	"github.com/groundbook/groundbook/internal/database"
	"github.com/groundbook/groundbook/internal/handlers"
	middlewareCustom "github.com/groundbook/groundbook/internal/middleware"
	"github.com/groundbook/groundbook/internal/otp"
	"github.com/groundbook/groundbook/internal/repositories"
	"github.com/groundbook/groundbook/internal/routes"
	"github.com/groundbook/groundbook/internal/services"
	"github.com/groundbook/groundbook/internal/storage"
	pkghttp "github.com/groundbook/groundbook/pkg/http"
	pkglogger "github.com/groundbook/groundbook/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	groundRepo := repositories.NewGroundRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	revokeRepo := repositories.NewTokenRevocationRepository(db)

	// Cleanup task for expired revoked admin sessions
	cleanupManager := background.NewCleanupManager(revokeRepo, logger, cfg.Admin.CleanupInterval)

	// Admin session tokens
	tokenManager := auth.NewTokenManager(cfg.Admin.JWTSecret, cfg.Admin.SessionExpiry)
	auditLogger := pkglogger.NewAuditLogger(logger)

	// OTP delivery channel: SES in production, log output in dev
	var codeSender otp.Sender
	if cfg.Email.Dev {
		codeSender = services.NewLogCodeSender(logger)
	} else {
		sesSender, err := services.NewSESCodeSender(cfg.Email.AWSRegion, cfg.Email.FromAddress, logger)
		if err != nil {
			logger.Error("failed to initialize email sender", slog.Any("error", err))
			os.Exit(1)
		}
		codeSender = sesSender
	}

	otpService := otp.NewService(codeSender, logger)

	// Payment proof storage
	proofStore, err := storage.NewS3ProofStore(cfg.Storage.AWSRegion, cfg.Storage.Bucket, cfg.Storage.BaseURL, logger)
	if err != nil {
		logger.Error("failed to initialize proof storage", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize services
	groundService := services.NewGroundService(groundRepo, otpService, logger)
	bookingService := services.NewBookingService(bookingRepo, groundRepo, otpService, proofStore, logger)
	analyticsService := services.NewAnalyticsService(bookingRepo, logger)
	pricingService := services.NewPricingService(groundRepo, bookingRepo, logger)
	adminService := services.NewAdminService(cfg.Admin, tokenManager, revokeRepo, logger, auditLogger)

	// Initialize handlers
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	otpHandler := handlers.NewOTPHandler(otpService)
	groundHandler := handlers.NewGroundHandler(groundService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	adminHandler := handlers.NewAdminHandler(adminService, groundService, bookingService, analyticsService, pricingService, ipConfig)

	// Setup router
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	healthCheck := func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	}

	routes.RegisterRoutes(router, otpHandler, groundHandler, bookingHandler, adminHandler, tokenManager, revokeRepo, healthCheck)

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
