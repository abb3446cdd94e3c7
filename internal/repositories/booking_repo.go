package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/groundbook/groundbook/internal/database"
	"github.com/groundbook/groundbook/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository handles booking data access
type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{pool: db.Pool}
}

const bookingColumns = `id, ground_id, player_name, player_email, player_phone,
		booking_date, time_slot, team_size, amount, status,
		transaction_id, payment_proof_url, created_at`

// scanBookingRow handles nullable payment fields and populates a Booking model
func scanBookingRow(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	var transactionID, proofURL *string

	err := row.Scan(
		&b.ID, &b.GroundID, &b.PlayerName, &b.PlayerEmail, &b.PlayerPhone,
		&b.BookingDate, &b.TimeSlot, &b.TeamSize, &b.Amount, &b.Status,
		&transactionID, &proofURL, &b.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	b.TransactionID = transactionID
	b.PaymentProofURL = proofURL
	return &b, nil
}

func scanBookingRows(rows pgx.Rows) ([]*models.Booking, error) {
	defer rows.Close()

	bookings := make([]*models.Booking, 0)

	for rows.Next() {
		booking, err := scanBookingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booking rows: %w", err)
	}

	return bookings, nil
}

// Create inserts a new booking
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	booking.ID = uuid.New().String()
	booking.CreatedAt = time.Now()

	if booking.Status == "" {
		booking.Status = models.BookingStatusConfirmed
	}

	query := `
		INSERT INTO bookings (id, ground_id, player_name, player_email, player_phone,
			booking_date, time_slot, team_size, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + bookingColumns

	created, err := scanBookingRow(r.pool.QueryRow(ctx, query,
		booking.ID, booking.GroundID, booking.PlayerName, booking.PlayerEmail, booking.PlayerPhone,
		booking.BookingDate, booking.TimeSlot, booking.TeamSize, booking.Amount, booking.Status,
		booking.CreatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return created, nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBookingRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// List returns all bookings, most recent booking date first
func (r *BookingRepository) List(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY booking_date DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}

	return scanBookingRows(rows)
}

// ListByCreatedRange returns bookings created inside [start, end], used by
// the analytics aggregation
func (r *BookingRepository) ListByCreatedRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings by range: %w", err)
	}

	return scanBookingRows(rows)
}

// CountByGroundSince counts recent bookings for one ground, a demand signal
// for the pricing heuristic
func (r *BookingRepository) CountByGroundSince(ctx context.Context, groundID string, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE ground_id = $1 AND created_at >= $2`

	var count int
	if err := r.pool.QueryRow(ctx, query, groundID, since).Scan(&count); err != nil {
		return 0, database.MapPostgresError(err)
	}

	return count, nil
}

// AttachPaymentProof records the transaction reference and optional
// screenshot URL, moving the booking to pending_verification
func (r *BookingRepository) AttachPaymentProof(ctx context.Context, id, transactionID string, proofURL *string) error {
	query := `
		UPDATE bookings
		SET transaction_id = $2, payment_proof_url = COALESCE($3, payment_proof_url), status = $4
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, transactionID, proofURL, models.BookingStatusPendingVerification)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete removes a booking permanently
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
