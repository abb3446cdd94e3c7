package services

import (
	"context"
	"io"
	"time"

	"github.com/groundbook/groundbook/internal/models"
)

// MockGroundRepository implements GroundRepository for testing
type MockGroundRepository struct {
	CreateFunc       func(ctx context.Context, ground *models.Ground) (*models.Ground, error)
	GetByIDFunc      func(ctx context.Context, id string) (*models.Ground, error)
	ListByStatusFunc func(ctx context.Context, status string, filter models.GroundFilter) ([]*models.Ground, error)
	UpdateStatusFunc func(ctx context.Context, id, status string) error
	DeleteFunc       func(ctx context.Context, id string) error
}

func (m *MockGroundRepository) Create(ctx context.Context, ground *models.Ground) (*models.Ground, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ground)
	}
	return nil, models.ErrInternalServer
}

func (m *MockGroundRepository) GetByID(ctx context.Context, id string) (*models.Ground, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockGroundRepository) ListByStatus(ctx context.Context, status string, filter models.GroundFilter) ([]*models.Ground, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, status, filter)
	}
	return []*models.Ground{}, nil
}

func (m *MockGroundRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockGroundRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockBookingRepository implements BookingRepository for testing
type MockBookingRepository struct {
	CreateFunc               func(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetByIDFunc              func(ctx context.Context, id string) (*models.Booking, error)
	ListFunc                 func(ctx context.Context) ([]*models.Booking, error)
	ListByCreatedRangeFunc   func(ctx context.Context, start, end time.Time) ([]*models.Booking, error)
	CountByGroundSinceFunc   func(ctx context.Context, groundID string, since time.Time) (int, error)
	AttachPaymentProofFunc   func(ctx context.Context, id, transactionID string, proofURL *string) error
	DeleteFunc               func(ctx context.Context, id string) error
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, booking)
	}
	return nil, models.ErrInternalServer
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockBookingRepository) List(ctx context.Context) ([]*models.Booking, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Booking{}, nil
}

func (m *MockBookingRepository) ListByCreatedRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	if m.ListByCreatedRangeFunc != nil {
		return m.ListByCreatedRangeFunc(ctx, start, end)
	}
	return []*models.Booking{}, nil
}

func (m *MockBookingRepository) CountByGroundSince(ctx context.Context, groundID string, since time.Time) (int, error) {
	if m.CountByGroundSinceFunc != nil {
		return m.CountByGroundSinceFunc(ctx, groundID, since)
	}
	return 0, nil
}

func (m *MockBookingRepository) AttachPaymentProof(ctx context.Context, id, transactionID string, proofURL *string) error {
	if m.AttachPaymentProofFunc != nil {
		return m.AttachPaymentProofFunc(ctx, id, transactionID, proofURL)
	}
	return nil
}

func (m *MockBookingRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockEmailGate implements EmailGate for testing
type MockEmailGate struct {
	IsVerifiedFunc func(email string) bool
	ClearedEmails  []string
}

func (m *MockEmailGate) IsVerified(email string) bool {
	if m.IsVerifiedFunc != nil {
		return m.IsVerifiedFunc(email)
	}
	return false
}

func (m *MockEmailGate) Clear(email string) {
	m.ClearedEmails = append(m.ClearedEmails, email)
}

// MockProofStore implements storage.ProofStore for testing
type MockProofStore struct {
	UploadFunc func(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

func (m *MockProofStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, key, contentType, body)
	}
	return "https://example.com/" + key, nil
}

// MockTokenRevoker implements TokenRevoker for testing
type MockTokenRevoker struct {
	RevokeTokenFunc func(ctx context.Context, jti, username string, expiresAt time.Time, reason string) error
	RevokedJTIs     []string
}

func (m *MockTokenRevoker) RevokeToken(ctx context.Context, jti, username string, expiresAt time.Time, reason string) error {
	m.RevokedJTIs = append(m.RevokedJTIs, jti)
	if m.RevokeTokenFunc != nil {
		return m.RevokeTokenFunc(ctx, jti, username, expiresAt, reason)
	}
	return nil
}

// NewTestGround builds a verified ground for tests
func NewTestGround(id string, pricePerHour int) *models.Ground {
	return &models.Ground{
		ID:           id,
		OwnerName:    "Test Owner",
		OwnerEmail:   "owner@example.com",
		OwnerPhone:   "03001234567",
		Name:         "Test Arena",
		Location:     "F-10",
		City:         "Islamabad",
		GroundType:   "futsal",
		Dimensions:   "40x20m",
		PricePerHour: pricePerHour,
		Status:       models.GroundStatusVerified,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}
