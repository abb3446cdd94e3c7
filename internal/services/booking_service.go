package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/groundbook/groundbook/internal/models"
	"github.com/groundbook/groundbook/internal/storage"
	pkglogger "github.com/groundbook/groundbook/pkg/logger"
	qrcode "github.com/skip2/go-qrcode"
)

// BookingRepository defines the interface for booking data access
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context) ([]*models.Booking, error)
	AttachPaymentProof(ctx context.Context, id, transactionID string, proofURL *string) error
	Delete(ctx context.Context, id string) error
}

// GroundFetcher is the slice of ground access the booking flow needs
type GroundFetcher interface {
	GetByID(ctx context.Context, id string) (*models.Ground, error)
}

// BookingService handles slot bookings, payment proof submission and
// entry tickets
type BookingService struct {
	bookingRepo BookingRepository
	groundRepo  GroundFetcher
	gate        EmailGate
	proofStore  storage.ProofStore
	logger      *slog.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo BookingRepository,
	groundRepo GroundFetcher,
	gate EmailGate,
	proofStore storage.ProofStore,
	logger *slog.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		groundRepo:  groundRepo,
		gate:        gate,
		proofStore:  proofStore,
		logger:      logger,
	}
}

// Create books a slot. The player's email must hold a live, verified OTP
// record at submit time (re-checked here, not trusted from an earlier verify
// response). The booking amount snapshots the ground's current hourly price,
// and the spent OTP is cleared once the row exists.
func (s *BookingService) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if !s.gate.IsVerified(booking.PlayerEmail) {
		s.logger.Warn("booking blocked, email not verified",
			slog.String("player_email", pkglogger.SanitizedEmail(booking.PlayerEmail)))
		return nil, models.ErrEmailNotVerified
	}

	ground, err := s.groundRepo.GetByID(ctx, booking.GroundID)
	if err != nil {
		return nil, err
	}

	if !ground.IsVerified() {
		return nil, models.ErrGroundNotBookable
	}

	booking.Amount = ground.PricePerHour
	booking.Status = models.BookingStatusConfirmed

	created, err := s.bookingRepo.Create(ctx, booking)
	if err != nil {
		return nil, err
	}

	s.gate.Clear(booking.PlayerEmail)

	s.logger.Info("booking created",
		slog.String("booking_id", created.ID),
		slog.String("ground_id", created.GroundID),
		slog.String("time_slot", created.TimeSlot))

	return created, nil
}

// Get fetches a booking by ID
func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// SubmitPaymentProof records the transaction reference and uploads the
// optional screenshot, moving the booking to pending_verification for an
// admin to confirm
func (s *BookingService) SubmitPaymentProof(ctx context.Context, bookingID, transactionID string, screenshot io.Reader, contentType string) error {
	if _, err := s.bookingRepo.GetByID(ctx, bookingID); err != nil {
		return err
	}

	var proofURL *string
	if screenshot != nil {
		key := fmt.Sprintf("%s_%s", bookingID, uuid.New().String())
		url, err := s.proofStore.Upload(ctx, key, contentType, screenshot)
		if err != nil {
			return fmt.Errorf("failed to store payment screenshot: %w", err)
		}
		proofURL = &url
	}

	if err := s.bookingRepo.AttachPaymentProof(ctx, bookingID, transactionID, proofURL); err != nil {
		return err
	}

	s.logger.Info("payment proof submitted", slog.String("booking_id", bookingID))
	return nil
}

// Ticket renders a QR PNG encoding the booking reference, scanned at the
// ground entrance
func (s *BookingService) Ticket(ctx context.Context, bookingID string) ([]byte, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	payload := fmt.Sprintf("groundbook:%s:%s:%s", booking.ID, booking.BookingDate.Format("2006-01-02"), booking.TimeSlot)

	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ticket QR: %w", err)
	}

	return png, nil
}

// BookingLists is the admin view of bookings split by whether the booked
// date has passed
type BookingLists struct {
	Active []*models.Booking `json:"active"`
	Past   []*models.Booking `json:"past"`
}

// ListForAdmin returns all bookings split into active and past
func (s *BookingService) ListForAdmin(ctx context.Context) (*BookingLists, error) {
	bookings, err := s.bookingRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	lists := &BookingLists{
		Active: make([]*models.Booking, 0),
		Past:   make([]*models.Booking, 0),
	}

	today := time.Now()
	for _, b := range bookings {
		if b.IsPast(today) {
			lists.Past = append(lists.Past, b)
		} else {
			lists.Active = append(lists.Active, b)
		}
	}

	return lists, nil
}

// Remove deletes a booking permanently
func (s *BookingService) Remove(ctx context.Context, id string) error {
	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("booking deleted", slog.String("booking_id", id))
	return nil
}
