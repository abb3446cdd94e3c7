package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/groundbook/groundbook/internal/models"
	"github.com/groundbook/groundbook/internal/otp"
	"github.com/groundbook/groundbook/internal/services"
	pkghttp "github.com/groundbook/groundbook/pkg/http"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithURLParam injects a chi route parameter into the request context
func WithURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockOTPService implements OTPServiceInterface for testing
type MockOTPService struct {
	SendFunc   func(ctx context.Context, email, purpose string) otp.SendResult
	VerifyFunc func(email, submitted string) otp.VerifyResult
	ResendFunc func(ctx context.Context, email, purpose string) otp.SendResult
}

func (m *MockOTPService) Send(ctx context.Context, email, purpose string) otp.SendResult {
	if m.SendFunc == nil {
		return otp.SendResult{Success: false, Message: "Failed to send OTP. Please try again."}
	}
	return m.SendFunc(ctx, email, purpose)
}

func (m *MockOTPService) Verify(email, submitted string) otp.VerifyResult {
	if m.VerifyFunc == nil {
		return otp.VerifyResult{Success: false, Message: "No OTP found for this email. Please request a new OTP."}
	}
	return m.VerifyFunc(email, submitted)
}

func (m *MockOTPService) Resend(ctx context.Context, email, purpose string) otp.SendResult {
	if m.ResendFunc == nil {
		return otp.SendResult{Success: false, Message: "Failed to send OTP. Please try again."}
	}
	return m.ResendFunc(ctx, email, purpose)
}

// MockGroundService implements GroundServiceInterface and
// ModerationServiceInterface for testing
type MockGroundService struct {
	BrowseFunc       func(ctx context.Context, filter models.GroundFilter) ([]*models.Ground, error)
	GetFunc          func(ctx context.Context, id string) (*models.Ground, error)
	SubmitFunc       func(ctx context.Context, ground *models.Ground) (*models.Ground, error)
	ListPendingFunc  func(ctx context.Context) ([]*models.Ground, error)
	ListVerifiedFunc func(ctx context.Context) ([]*models.Ground, error)
	ApproveFunc      func(ctx context.Context, id string) error
	RemoveFunc       func(ctx context.Context, id string) error
}

func (m *MockGroundService) Browse(ctx context.Context, filter models.GroundFilter) ([]*models.Ground, error) {
	if m.BrowseFunc == nil {
		return []*models.Ground{}, nil
	}
	return m.BrowseFunc(ctx, filter)
}

func (m *MockGroundService) Get(ctx context.Context, id string) (*models.Ground, error) {
	if m.GetFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetFunc(ctx, id)
}

func (m *MockGroundService) Submit(ctx context.Context, ground *models.Ground) (*models.Ground, error) {
	if m.SubmitFunc == nil {
		return nil, models.ErrEmailNotVerified
	}
	return m.SubmitFunc(ctx, ground)
}

func (m *MockGroundService) ListPending(ctx context.Context) ([]*models.Ground, error) {
	if m.ListPendingFunc == nil {
		return []*models.Ground{}, nil
	}
	return m.ListPendingFunc(ctx)
}

func (m *MockGroundService) ListVerified(ctx context.Context) ([]*models.Ground, error) {
	if m.ListVerifiedFunc == nil {
		return []*models.Ground{}, nil
	}
	return m.ListVerifiedFunc(ctx)
}

func (m *MockGroundService) Approve(ctx context.Context, id string) error {
	if m.ApproveFunc == nil {
		return models.ErrNotFound
	}
	return m.ApproveFunc(ctx, id)
}

func (m *MockGroundService) Remove(ctx context.Context, id string) error {
	if m.RemoveFunc == nil {
		return models.ErrNotFound
	}
	return m.RemoveFunc(ctx, id)
}

// MockBookingService implements BookingServiceInterface and
// AdminBookingServiceInterface for testing
type MockBookingService struct {
	CreateFunc             func(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetFunc                func(ctx context.Context, id string) (*models.Booking, error)
	SubmitPaymentProofFunc func(ctx context.Context, bookingID, transactionID string, screenshot io.Reader, contentType string) error
	TicketFunc             func(ctx context.Context, bookingID string) ([]byte, error)
	ListForAdminFunc       func(ctx context.Context) (*services.BookingLists, error)
	RemoveFunc             func(ctx context.Context, id string) error
}

func (m *MockBookingService) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if m.CreateFunc == nil {
		return nil, models.ErrEmailNotVerified
	}
	return m.CreateFunc(ctx, booking)
}

func (m *MockBookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	if m.GetFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetFunc(ctx, id)
}

func (m *MockBookingService) SubmitPaymentProof(ctx context.Context, bookingID, transactionID string, screenshot io.Reader, contentType string) error {
	if m.SubmitPaymentProofFunc == nil {
		return models.ErrNotFound
	}
	return m.SubmitPaymentProofFunc(ctx, bookingID, transactionID, screenshot, contentType)
}

func (m *MockBookingService) Ticket(ctx context.Context, bookingID string) ([]byte, error) {
	if m.TicketFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.TicketFunc(ctx, bookingID)
}

func (m *MockBookingService) ListForAdmin(ctx context.Context) (*services.BookingLists, error) {
	if m.ListForAdminFunc == nil {
		return &services.BookingLists{}, nil
	}
	return m.ListForAdminFunc(ctx)
}

func (m *MockBookingService) Remove(ctx context.Context, id string) error {
	if m.RemoveFunc == nil {
		return models.ErrNotFound
	}
	return m.RemoveFunc(ctx, id)
}

// MockAdminService implements AdminServiceInterface for testing
type MockAdminService struct {
	LoginFunc  func(ctx context.Context, username, password, ipAddress, userAgent string) (*services.AdminSession, error)
	LogoutFunc func(ctx context.Context, tokenString, ipAddress string) error
}

func (m *MockAdminService) Login(ctx context.Context, username, password, ipAddress, userAgent string) (*services.AdminSession, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.LoginFunc(ctx, username, password, ipAddress, userAgent)
}

func (m *MockAdminService) Logout(ctx context.Context, tokenString, ipAddress string) error {
	if m.LogoutFunc == nil {
		return models.ErrUnauthorized
	}
	return m.LogoutFunc(ctx, tokenString, ipAddress)
}

// MockAnalyticsService implements AnalyticsServiceInterface for testing
type MockAnalyticsService struct {
	ComputeFunc func(ctx context.Context, start, end time.Time) (*services.Metrics, error)
}

func (m *MockAnalyticsService) Compute(ctx context.Context, start, end time.Time) (*services.Metrics, error) {
	if m.ComputeFunc == nil {
		return &services.Metrics{}, nil
	}
	return m.ComputeFunc(ctx, start, end)
}

// MockPricingService implements PricingServiceInterface for testing
type MockPricingService struct {
	RecommendFunc func(ctx context.Context, groundID string, date time.Time, timeSlot string) (*services.PriceRecommendation, error)
}

func (m *MockPricingService) Recommend(ctx context.Context, groundID string, date time.Time, timeSlot string) (*services.PriceRecommendation, error) {
	if m.RecommendFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.RecommendFunc(ctx, groundID, date, timeSlot)
}
