package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/groundbook/groundbook/internal/auth"
	"github.com/groundbook/groundbook/internal/handlers"
	"github.com/groundbook/groundbook/internal/middleware"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	otpHandler *handlers.OTPHandler,
	groundHandler *handlers.GroundHandler,
	bookingHandler *handlers.BookingHandler,
	adminHandler *handlers.AdminHandler,
	tokenManager *auth.TokenManager,
	revocationChecker auth.TokenRevocationChecker,
	healthCheck http.HandlerFunc,
) {
	otpRateLimit := middleware.DefaultOTPRateLimit()
	loginRateLimit := middleware.DefaultAdminLoginRateLimit()

	router.Get("/health", healthCheck)

	// Public browsing
	router.Get("/grounds", groundHandler.Browse)
	router.Get("/grounds/{id}", groundHandler.Get)

	// Email verification exchange. Send and resend hit the email channel, so
	// they are rate limited; verify is a pure in-memory check.
	router.With(middleware.RateLimitByIP(otpRateLimit)).Post("/otp/send", otpHandler.Send)
	router.Post("/otp/verify", otpHandler.Verify)
	router.With(middleware.RateLimitByIP(otpRateLimit)).Post("/otp/resend", otpHandler.Resend)

	// OTP-gated record creation
	router.Post("/bookings", bookingHandler.Create)
	router.Get("/bookings/{id}", bookingHandler.Get)
	router.Post("/bookings/{id}/payment-proof", bookingHandler.SubmitPaymentProof)
	router.Get("/bookings/{id}/ticket", bookingHandler.Ticket)
	router.Post("/grounds/submissions", groundHandler.Submit)

	router.With(middleware.RateLimitByIP(loginRateLimit)).Post("/admin/login", adminHandler.Login)

	// Admin routes - session token required
	router.Group(func(r chi.Router) {
		r.Use(auth.AdminMiddleware(tokenManager, revocationChecker))

		r.Post("/admin/logout", adminHandler.Logout)

		r.Get("/admin/grounds", adminHandler.ListGrounds)
		r.Post("/admin/grounds/{id}/approve", adminHandler.ApproveGround)
		r.Delete("/admin/grounds/{id}", adminHandler.DeleteGround)
		r.Get("/admin/grounds/{id}/suggested-price", adminHandler.SuggestedPrice)

		r.Get("/admin/bookings", adminHandler.ListBookings)
		r.Delete("/admin/bookings/{id}", adminHandler.DeleteBooking)

		r.Get("/admin/analytics", adminHandler.Analytics)
	})
}
