package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/groundbook/groundbook/internal/otp"
	pkghttp "github.com/groundbook/groundbook/pkg/http"
)

// OTPServiceInterface defines the interface for the OTP exchange
type OTPServiceInterface interface {
	Send(ctx context.Context, email, purpose string) otp.SendResult
	Verify(email, submitted string) otp.VerifyResult
	Resend(ctx context.Context, email, purpose string) otp.SendResult
}

// OTPHandler handles the email verification endpoints
type OTPHandler struct {
	service OTPServiceInterface
}

// NewOTPHandler creates a new OTPHandler
func NewOTPHandler(service OTPServiceInterface) *OTPHandler {
	return &OTPHandler{
		service: service,
	}
}

// Request DTOs

// SendOTPRequest represents the request body for issuing a code
type SendOTPRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Purpose string `json:"purpose" validate:"omitempty,max=64"`
}

// VerifyOTPRequest represents the request body for checking a code
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,max=16"`
}

// Send issues a fresh code to the given email
// @Summary Send a verification code
// @Accept json
// @Param request body SendOTPRequest true "Send request"
// @Produce json
// @Success 200 {object} otp.SendResult
// @Failure 400 {object} pkghttp.ErrorResponse
// @Router /otp/send [post]
func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	result := h.service.Send(r.Context(), req.Email, req.Purpose)
	if !result.Success {
		pkghttp.WriteJSON(w, http.StatusInternalServerError, result)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, result)
}

// Verify checks a submitted code. Failures keep the outcome message in the
// body so the caller can surface it as-is.
// @Summary Verify a code
// @Accept json
// @Param request body VerifyOTPRequest true "Verify request"
// @Produce json
// @Success 200 {object} otp.VerifyResult
// @Failure 400 {object} otp.VerifyResult
// @Router /otp/verify [post]
func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	result := h.service.Verify(req.Email, req.OTP)
	if !result.Success {
		pkghttp.WriteJSON(w, http.StatusBadRequest, result)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, result)
}

// Resend invalidates any outstanding code and issues a new one
// @Summary Resend a verification code
// @Accept json
// @Param request body SendOTPRequest true "Resend request"
// @Produce json
// @Success 200 {object} otp.SendResult
// @Failure 400 {object} pkghttp.ErrorResponse
// @Router /otp/resend [post]
func (h *OTPHandler) Resend(w http.ResponseWriter, r *http.Request) {
	var req SendOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	result := h.service.Resend(r.Context(), req.Email, req.Purpose)
	if !result.Success {
		pkghttp.WriteJSON(w, http.StatusInternalServerError, result)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, result)
}
