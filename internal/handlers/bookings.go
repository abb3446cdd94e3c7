package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/groundbook/groundbook/internal/models"
	pkghttp "github.com/groundbook/groundbook/pkg/http"
)

// maxProofUploadBytes caps the multipart payment proof body (5 MB)
const maxProofUploadBytes = 5 << 20

// BookingServiceInterface defines the interface for booking business logic
type BookingServiceInterface interface {
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	Get(ctx context.Context, id string) (*models.Booking, error)
	SubmitPaymentProof(ctx context.Context, bookingID, transactionID string, screenshot io.Reader, contentType string) error
	Ticket(ctx context.Context, bookingID string) ([]byte, error)
}

// BookingHandler handles player-facing booking requests
type BookingHandler struct {
	service BookingServiceInterface
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(service BookingServiceInterface) *BookingHandler {
	return &BookingHandler{
		service: service,
	}
}

// Request DTOs

// CreateBookingRequest represents the request body for creating a booking
type CreateBookingRequest struct {
	GroundID    string `json:"ground_id" validate:"required"`
	PlayerName  string `json:"player_name" validate:"required,min=1,max=100"`
	PlayerEmail string `json:"player_email" validate:"required,email"`
	PlayerPhone string `json:"player_phone" validate:"required,min=7,max=20"`
	BookingDate string `json:"booking_date" validate:"required,datetime=2006-01-02"`
	TimeSlot    string `json:"time_slot" validate:"required,max=20"`
	TeamSize    int    `json:"team_size" validate:"required,gte=1,lte=50"`
}

// Create books a slot. The player email must have completed OTP verification
// first.
// @Summary Create a booking
// @Accept json
// @Param request body CreateBookingRequest true "Booking"
// @Produce json
// @Success 201 {object} models.Booking
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 403 {object} pkghttp.ErrorResponse
// @Router /bookings [post]
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	bookingDate, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		pkghttp.WriteBadRequest(w, "booking_date must be in YYYY-MM-DD format")
		return
	}

	booking := &models.Booking{
		GroundID:    req.GroundID,
		PlayerName:  strings.TrimSpace(req.PlayerName),
		PlayerEmail: strings.ToLower(strings.TrimSpace(req.PlayerEmail)),
		PlayerPhone: strings.TrimSpace(req.PlayerPhone),
		BookingDate: bookingDate,
		TimeSlot:    strings.TrimSpace(req.TimeSlot),
		TeamSize:    req.TeamSize,
	}

	created, err := h.service.Create(r.Context(), booking)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmailNotVerified):
			pkghttp.WriteForbidden(w, "Email not verified. Please verify your email before booking.")
		case errors.Is(err, models.ErrGroundNotBookable):
			pkghttp.WriteBadRequest(w, "This ground is not available for booking")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Ground not found")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, created)
}

// Get fetches a single booking
// @Summary Get a booking by ID
// @Param id path string true "Booking ID"
// @Produce json
// @Success 200 {object} models.Booking
// @Failure 404 {object} pkghttp.ErrorResponse
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	booking, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Booking not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, booking)
}

// SubmitPaymentProof attaches a transaction reference and optional
// screenshot to a booking. Multipart form fields: transaction_id (required),
// screenshot (optional file).
// @Summary Submit payment proof for a booking
// @Accept mpfd
// @Param id path string true "Booking ID"
// @Param transaction_id formData string true "Payment transaction reference"
// @Param screenshot formData file false "Payment screenshot"
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 404 {object} pkghttp.ErrorResponse
// @Router /bookings/{id}/payment-proof [post]
func (h *BookingHandler) SubmitPaymentProof(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxProofUploadBytes)
	if err := r.ParseMultipartForm(maxProofUploadBytes); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid multipart form")
		return
	}

	transactionID := strings.TrimSpace(r.FormValue("transaction_id"))
	if transactionID == "" {
		pkghttp.WriteBadRequest(w, "transaction_id is required")
		return
	}

	var screenshot io.Reader
	contentType := ""
	if file, header, err := r.FormFile("screenshot"); err == nil {
		defer file.Close()
		screenshot = file
		contentType = header.Header.Get("Content-Type")
	}

	if err := h.service.SubmitPaymentProof(r.Context(), id, transactionID, screenshot, contentType); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "Booking not found")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Payment proof submitted. Your booking will be confirmed after verification.",
	})
}

// Ticket renders the booking's entry ticket as a QR code PNG
// @Summary Get a booking entry ticket
// @Param id path string true "Booking ID"
// @Produce png
// @Success 200 {file} binary
// @Failure 404 {object} pkghttp.ErrorResponse
// @Router /bookings/{id}/ticket [get]
func (h *BookingHandler) Ticket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	png, err := h.service.Ticket(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Booking not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
