package services

import (
	"context"
	"log/slog"

	"github.com/groundbook/groundbook/internal/models"
	pkglogger "github.com/groundbook/groundbook/pkg/logger"
)

// GroundRepository defines the interface for ground data access
type GroundRepository interface {
	Create(ctx context.Context, ground *models.Ground) (*models.Ground, error)
	GetByID(ctx context.Context, id string) (*models.Ground, error)
	ListByStatus(ctx context.Context, status string, filter models.GroundFilter) ([]*models.Ground, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

// EmailGate is the OTP verification check consulted before a
// record-creating action is allowed through
type EmailGate interface {
	IsVerified(email string) bool
	Clear(email string)
}

// GroundService handles ground browsing, owner submissions and moderation
type GroundService struct {
	groundRepo GroundRepository
	gate       EmailGate
	logger     *slog.Logger
}

// NewGroundService creates a new GroundService
func NewGroundService(groundRepo GroundRepository, gate EmailGate, logger *slog.Logger) *GroundService {
	return &GroundService{
		groundRepo: groundRepo,
		gate:       gate,
		logger:     logger,
	}
}

// Browse lists verified grounds matching the filter
func (s *GroundService) Browse(ctx context.Context, filter models.GroundFilter) ([]*models.Ground, error) {
	return s.groundRepo.ListByStatus(ctx, models.GroundStatusVerified, filter)
}

// Get fetches a single ground by ID
func (s *GroundService) Get(ctx context.Context, id string) (*models.Ground, error) {
	return s.groundRepo.GetByID(ctx, id)
}

// Submit creates a pending ground submission. The owner's email must hold a
// live, verified OTP record at the moment of submission; the earlier verify
// call alone is not trusted, since the code may have expired in between.
// The spent OTP is cleared once the row is created.
func (s *GroundService) Submit(ctx context.Context, ground *models.Ground) (*models.Ground, error) {
	if !s.gate.IsVerified(ground.OwnerEmail) {
		s.logger.Warn("ground submission blocked, email not verified",
			slog.String("owner_email", pkglogger.SanitizedEmail(ground.OwnerEmail)))
		return nil, models.ErrEmailNotVerified
	}

	ground.Status = models.GroundStatusPending
	ground.Rating = 0
	ground.ReviewCount = 0

	created, err := s.groundRepo.Create(ctx, ground)
	if err != nil {
		return nil, err
	}

	s.gate.Clear(ground.OwnerEmail)

	s.logger.Info("ground submitted for approval",
		slog.String("ground_id", created.ID),
		slog.String("city", created.City))

	return created, nil
}

// ListPending lists submissions awaiting moderation
func (s *GroundService) ListPending(ctx context.Context) ([]*models.Ground, error) {
	return s.groundRepo.ListByStatus(ctx, models.GroundStatusPending, models.GroundFilter{})
}

// ListVerified lists approved grounds without filters (admin view)
func (s *GroundService) ListVerified(ctx context.Context) ([]*models.Ground, error) {
	return s.groundRepo.ListByStatus(ctx, models.GroundStatusVerified, models.GroundFilter{})
}

// Approve moves a pending ground to verified, making it publicly bookable
func (s *GroundService) Approve(ctx context.Context, id string) error {
	ground, err := s.groundRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if ground.Status != models.GroundStatusPending {
		return models.ErrBadRequest
	}

	if err := s.groundRepo.UpdateStatus(ctx, id, models.GroundStatusVerified); err != nil {
		return err
	}

	s.logger.Info("ground approved", slog.String("ground_id", id))
	return nil
}

// Remove deletes a ground permanently. Used both to reject a pending
// submission and to take down a verified listing.
func (s *GroundService) Remove(ctx context.Context, id string) error {
	if err := s.groundRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("ground removed", slog.String("ground_id", id))
	return nil
}
