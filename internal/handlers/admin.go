package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/groundbook/groundbook/internal/models"
	"github.com/groundbook/groundbook/internal/services"
	pkghttp "github.com/groundbook/groundbook/pkg/http"
)

// AdminServiceInterface defines the interface for admin session logic
type AdminServiceInterface interface {
	Login(ctx context.Context, username, password, ipAddress, userAgent string) (*services.AdminSession, error)
	Logout(ctx context.Context, tokenString, ipAddress string) error
}

// ModerationServiceInterface defines the interface for ground moderation
type ModerationServiceInterface interface {
	ListPending(ctx context.Context) ([]*models.Ground, error)
	ListVerified(ctx context.Context) ([]*models.Ground, error)
	Approve(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
}

// AdminBookingServiceInterface defines the interface for booking oversight
type AdminBookingServiceInterface interface {
	ListForAdmin(ctx context.Context) (*services.BookingLists, error)
	Remove(ctx context.Context, id string) error
}

// AnalyticsServiceInterface defines the interface for dashboard metrics
type AnalyticsServiceInterface interface {
	Compute(ctx context.Context, start, end time.Time) (*services.Metrics, error)
}

// PricingServiceInterface defines the interface for price recommendations
type PricingServiceInterface interface {
	Recommend(ctx context.Context, groundID string, date time.Time, timeSlot string) (*services.PriceRecommendation, error)
}

// AdminHandler handles the authenticated admin surface
type AdminHandler struct {
	adminService     AdminServiceInterface
	groundService    ModerationServiceInterface
	bookingService   AdminBookingServiceInterface
	analyticsService AnalyticsServiceInterface
	pricingService   PricingServiceInterface
	ipConfig         *pkghttp.IPConfig
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	adminService AdminServiceInterface,
	groundService ModerationServiceInterface,
	bookingService AdminBookingServiceInterface,
	analyticsService AnalyticsServiceInterface,
	pricingService PricingServiceInterface,
	ipConfig *pkghttp.IPConfig,
) *AdminHandler {
	return &AdminHandler{
		adminService:     adminService,
		groundService:    groundService,
		bookingService:   bookingService,
		analyticsService: analyticsService,
		pricingService:   pricingService,
		ipConfig:         ipConfig,
	}
}

// Request DTOs

// AdminLoginRequest represents the request body for admin login
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=50"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates an admin and issues a session token
// @Summary Admin login
// @Accept json
// @Param request body AdminLoginRequest true "Credentials"
// @Produce json
// @Success 200 {object} services.AdminSession
// @Failure 401 {object} pkghttp.ErrorResponse
// @Router /admin/login [post]
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)
	userAgent := r.Header.Get("User-Agent")

	session, err := h.adminService.Login(r.Context(), req.Username, req.Password, ipAddress, userAgent)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			pkghttp.WriteUnauthorized(w, "Invalid username or password")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, session)
}

// Logout revokes the presented session token
// @Summary Admin logout
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} pkghttp.ErrorResponse
// @Router /admin/logout [post]
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		pkghttp.WriteUnauthorized(w, "Missing authorization token")
		return
	}

	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)

	if err := h.adminService.Logout(r.Context(), token, ipAddress); err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			pkghttp.WriteUnauthorized(w, "Invalid token")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// ListGrounds lists grounds by moderation status (pending by default)
// @Summary List grounds for moderation
// @Param status query string false "pending or verified"
// @Produce json
// @Success 200 {object} ListGroundsResponse
// @Router /admin/grounds [get]
func (h *AdminHandler) ListGrounds(w http.ResponseWriter, r *http.Request) {
	var (
		grounds []*models.Ground
		err     error
	)

	switch r.URL.Query().Get("status") {
	case "", models.GroundStatusPending:
		grounds, err = h.groundService.ListPending(r.Context())
	case models.GroundStatusVerified:
		grounds, err = h.groundService.ListVerified(r.Context())
	default:
		pkghttp.WriteBadRequest(w, "status must be one of: pending, verified")
		return
	}

	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, &ListGroundsResponse{
		Grounds: grounds,
		Total:   len(grounds),
	})
}

// ApproveGround moves a pending ground to verified
// @Summary Approve a pending ground
// @Param id path string true "Ground ID"
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 404 {object} pkghttp.ErrorResponse
// @Router /admin/grounds/{id}/approve [post]
func (h *AdminHandler) ApproveGround(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.groundService.Approve(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Ground not found")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Ground is not pending approval")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Ground approved"})
}

// DeleteGround removes a ground. Used to reject pending submissions and to
// take down live listings.
// @Summary Delete a ground
// @Param id path string true "Ground ID"
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} pkghttp.ErrorResponse
// @Router /admin/grounds/{id} [delete]
func (h *AdminHandler) DeleteGround(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.groundService.Remove(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Ground not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Ground deleted"})
}

// ListBookings lists all bookings split into active and past
// @Summary List bookings
// @Produce json
// @Success 200 {object} services.BookingLists
// @Router /admin/bookings [get]
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	lists, err := h.bookingService.ListForAdmin(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, lists)
}

// DeleteBooking removes a booking
// @Summary Delete a booking
// @Param id path string true "Booking ID"
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} pkghttp.ErrorResponse
// @Router /admin/bookings/{id} [delete]
func (h *AdminHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.bookingService.Remove(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Booking not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Booking deleted"})
}

// Analytics returns dashboard metrics for a date range. Defaults to the
// trailing 30 days when no range is given.
// @Summary Dashboard analytics
// @Param start query string false "Range start, YYYY-MM-DD"
// @Param end query string false "Range end, YYYY-MM-DD"
// @Produce json
// @Success 200 {object} services.Metrics
// @Failure 400 {object} pkghttp.ErrorResponse
// @Router /admin/analytics [get]
func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if startStr := r.URL.Query().Get("start"); startStr != "" {
		parsed, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			pkghttp.WriteBadRequest(w, "start must be in YYYY-MM-DD format")
			return
		}
		start = parsed
	}

	if endStr := r.URL.Query().Get("end"); endStr != "" {
		parsed, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			pkghttp.WriteBadRequest(w, "end must be in YYYY-MM-DD format")
			return
		}
		// Include the whole end day
		end = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	if end.Before(start) {
		pkghttp.WriteBadRequest(w, "end must not be before start")
		return
	}

	metrics, err := h.analyticsService.Compute(r.Context(), start, end)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, metrics)
}

// SuggestedPrice returns a price recommendation for a ground, date and slot
// @Summary Suggested slot price
// @Param id path string true "Ground ID"
// @Param date query string false "Booking date, YYYY-MM-DD (default today)"
// @Param slot query string false "Time slot, e.g. 18:00-19:00"
// @Produce json
// @Success 200 {object} services.PriceRecommendation
// @Failure 404 {object} pkghttp.ErrorResponse
// @Router /admin/grounds/{id}/suggested-price [get]
func (h *AdminHandler) SuggestedPrice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	date := time.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			pkghttp.WriteBadRequest(w, "date must be in YYYY-MM-DD format")
			return
		}
		date = parsed
	}

	rec, err := h.pricingService.Recommend(r.Context(), id, date, r.URL.Query().Get("slot"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Ground not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, rec)
}

// bearerToken extracts the token from an Authorization: Bearer header
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
