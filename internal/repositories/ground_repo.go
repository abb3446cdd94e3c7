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

// GroundRepository handles ground data access
type GroundRepository struct {
	pool *pgxpool.Pool
}

func NewGroundRepository(db *database.DB) *GroundRepository {
	return &GroundRepository{pool: db.Pool}
}

// rowScanner interface for scanning rows (supports single row and row sets)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

const groundColumns = `id, owner_name, owner_email, owner_phone, name, location, city,
		ground_type, dimensions, price_per_hour, facilities, image_url, description,
		status, rating, review_count, created_at, updated_at`

// scanGroundRow populates a Ground model from a database row
func scanGroundRow(row rowScanner) (*models.Ground, error) {
	var g models.Ground

	err := row.Scan(
		&g.ID, &g.OwnerName, &g.OwnerEmail, &g.OwnerPhone, &g.Name,
		&g.Location, &g.City, &g.GroundType, &g.Dimensions, &g.PricePerHour,
		&g.Facilities, &g.ImageURL, &g.Description, &g.Status,
		&g.Rating, &g.ReviewCount, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &g, nil
}

func scanGroundRows(rows pgx.Rows) ([]*models.Ground, error) {
	defer rows.Close()

	grounds := make([]*models.Ground, 0)

	for rows.Next() {
		ground, err := scanGroundRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ground: %w", err)
		}
		grounds = append(grounds, ground)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ground rows: %w", err)
	}

	return grounds, nil
}

// Create inserts a new ground submission
func (r *GroundRepository) Create(ctx context.Context, ground *models.Ground) (*models.Ground, error) {
	ground.ID = uuid.New().String()

	now := time.Now()
	ground.CreatedAt = now
	ground.UpdatedAt = now

	if ground.Status == "" {
		ground.Status = models.GroundStatusPending
	}

	query := `
		INSERT INTO grounds (id, owner_name, owner_email, owner_phone, name, location, city,
			ground_type, dimensions, price_per_hour, facilities, image_url, description,
			status, rating, review_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING ` + groundColumns

	created, err := scanGroundRow(r.pool.QueryRow(ctx, query,
		ground.ID, ground.OwnerName, ground.OwnerEmail, ground.OwnerPhone, ground.Name,
		ground.Location, ground.City, ground.GroundType, ground.Dimensions, ground.PricePerHour,
		ground.Facilities, ground.ImageURL, ground.Description, ground.Status,
		ground.Rating, ground.ReviewCount, ground.CreatedAt, ground.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create ground: %w", err)
	}

	return created, nil
}

// GetByID retrieves a ground by ID
func (r *GroundRepository) GetByID(ctx context.Context, id string) (*models.Ground, error) {
	query := `SELECT ` + groundColumns + ` FROM grounds WHERE id = $1`

	ground, err := scanGroundRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	return ground, nil
}

// ListByStatus lists grounds in one status, applying the optional filter.
// Filtering happens in SQL so the listing stays cheap as the table grows.
func (r *GroundRepository) ListByStatus(ctx context.Context, status string, filter models.GroundFilter) ([]*models.Ground, error) {
	query := `SELECT ` + groundColumns + ` FROM grounds WHERE status = $1`
	args := []interface{}{status}

	if filter.Location != "" {
		args = append(args, "%"+filter.Location+"%")
		query += fmt.Sprintf(" AND (location ILIKE $%d OR city ILIKE $%d)", len(args), len(args))
	}
	if filter.GroundType != "" {
		args = append(args, filter.GroundType)
		query += fmt.Sprintf(" AND ground_type = $%d", len(args))
	}
	if filter.MinPrice > 0 {
		args = append(args, filter.MinPrice)
		query += fmt.Sprintf(" AND price_per_hour >= $%d", len(args))
	}
	if filter.MaxPrice > 0 {
		args = append(args, filter.MaxPrice)
		query += fmt.Sprintf(" AND price_per_hour <= $%d", len(args))
	}
	if filter.MinRating > 0 {
		args = append(args, filter.MinRating)
		query += fmt.Sprintf(" AND rating >= $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query grounds: %w", err)
	}

	return scanGroundRows(rows)
}

// UpdateStatus moves a ground between moderation states
func (r *GroundRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE grounds SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete removes a ground permanently
func (r *GroundRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM grounds WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
