package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/groundbook/groundbook/internal/models"
	pkghttp "github.com/groundbook/groundbook/pkg/http"
)

// GroundServiceInterface defines the interface for ground business logic
type GroundServiceInterface interface {
	Browse(ctx context.Context, filter models.GroundFilter) ([]*models.Ground, error)
	Get(ctx context.Context, id string) (*models.Ground, error)
	Submit(ctx context.Context, ground *models.Ground) (*models.Ground, error)
}

// GroundHandler handles public ground browsing and owner submissions
type GroundHandler struct {
	service GroundServiceInterface
}

// NewGroundHandler creates a new GroundHandler
func NewGroundHandler(service GroundServiceInterface) *GroundHandler {
	return &GroundHandler{
		service: service,
	}
}

// Request/Response DTOs

// SubmitGroundRequest represents the request body for an owner submission
type SubmitGroundRequest struct {
	OwnerName    string   `json:"owner_name" validate:"required,min=1,max=100"`
	OwnerEmail   string   `json:"owner_email" validate:"required,email"`
	OwnerPhone   string   `json:"owner_phone" validate:"required,min=7,max=20"`
	Name         string   `json:"name" validate:"required,min=1,max=150"`
	Location     string   `json:"location" validate:"required,min=1,max=200"`
	City         string   `json:"city" validate:"required,min=1,max=100"`
	GroundType   string   `json:"ground_type" validate:"required,oneof=futsal cricket football padel multi-sport"`
	Dimensions   string   `json:"dimensions" validate:"omitempty,max=50"`
	PricePerHour int      `json:"price_per_hour" validate:"required,gte=1"`
	Facilities   []string `json:"facilities" validate:"omitempty,dive,max=50"`
	ImageURL     string   `json:"image_url" validate:"omitempty,max=500"`
	Description  string   `json:"description" validate:"omitempty,max=2000"`
}

// ListGroundsResponse represents a list of grounds
type ListGroundsResponse struct {
	Grounds []*models.Ground `json:"grounds"`
	Total   int              `json:"total"`
}

// parseGroundFilter builds a filter from browse query params. The price_range
// param uses "min-max" bands plus the open-ended "5000+" band.
func parseGroundFilter(r *http.Request) models.GroundFilter {
	q := r.URL.Query()

	filter := models.GroundFilter{
		Location:   strings.TrimSpace(q.Get("location")),
		GroundType: strings.TrimSpace(q.Get("type")),
	}

	if band := strings.TrimSpace(q.Get("price_range")); band != "" {
		if cut, ok := strings.CutSuffix(band, "+"); ok {
			if min, err := strconv.Atoi(cut); err == nil {
				filter.MinPrice = min
			}
		} else if minStr, maxStr, ok := strings.Cut(band, "-"); ok {
			if min, err := strconv.Atoi(minStr); err == nil {
				filter.MinPrice = min
			}
			if max, err := strconv.Atoi(maxStr); err == nil {
				filter.MaxPrice = max
			}
		}
	}

	if ratingStr := q.Get("min_rating"); ratingStr != "" {
		if rating, err := strconv.ParseFloat(ratingStr, 64); err == nil {
			filter.MinRating = rating
		}
	}

	return filter
}

// Browse lists verified grounds matching the query filters
// @Summary Browse verified grounds
// @Param location query string false "Location or city substring"
// @Param type query string false "Ground type"
// @Param price_range query string false "Price band, e.g. 1500-3000 or 5000+"
// @Param min_rating query number false "Minimum rating"
// @Produce json
// @Success 200 {object} ListGroundsResponse
// @Router /grounds [get]
func (h *GroundHandler) Browse(w http.ResponseWriter, r *http.Request) {
	grounds, err := h.service.Browse(r.Context(), parseGroundFilter(r))
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, &ListGroundsResponse{
		Grounds: grounds,
		Total:   len(grounds),
	})
}

// Get fetches a single ground
// @Summary Get a ground by ID
// @Param id path string true "Ground ID"
// @Produce json
// @Success 200 {object} models.Ground
// @Failure 404 {object} pkghttp.ErrorResponse
// @Router /grounds/{id} [get]
func (h *GroundHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ground, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Ground not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, ground)
}

// Submit accepts an owner's ground submission. The owner email must have
// completed OTP verification first.
// @Summary Submit a ground for approval
// @Accept json
// @Param request body SubmitGroundRequest true "Submission"
// @Produce json
// @Success 201 {object} models.Ground
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 403 {object} pkghttp.ErrorResponse
// @Router /grounds/submissions [post]
func (h *GroundHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitGroundRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	ground := &models.Ground{
		OwnerName:    strings.TrimSpace(req.OwnerName),
		OwnerEmail:   strings.ToLower(strings.TrimSpace(req.OwnerEmail)),
		OwnerPhone:   strings.TrimSpace(req.OwnerPhone),
		Name:         strings.TrimSpace(req.Name),
		Location:     strings.TrimSpace(req.Location),
		City:         strings.TrimSpace(req.City),
		GroundType:   req.GroundType,
		Dimensions:   strings.TrimSpace(req.Dimensions),
		PricePerHour: req.PricePerHour,
		Facilities:   req.Facilities,
		ImageURL:     strings.TrimSpace(req.ImageURL),
		Description:  strings.TrimSpace(req.Description),
	}

	created, err := h.service.Submit(r.Context(), ground)
	if err != nil {
		if errors.Is(err, models.ErrEmailNotVerified) {
			pkghttp.WriteForbidden(w, "Email not verified. Please verify your email before submitting.")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, created)
}
