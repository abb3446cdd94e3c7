package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/groundbook/groundbook/internal/models"
)

// TestEmail generates a unique test email using a timestamp
func TestEmail(suffix string) string {
	return fmt.Sprintf("test-%d-%s@example.com", time.Now().UnixNano(), suffix)
}

// SeedGround inserts a ground row with the given status and returns it
func SeedGround(ctx context.Context, pool *pgxpool.Pool, name, status string, pricePerHour int) (*models.Ground, error) {
	query := `
		INSERT INTO grounds (id, owner_name, owner_email, owner_phone, name, location, city,
			ground_type, dimensions, price_per_hour, facilities, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, status, price_per_hour
	`

	ground := &models.Ground{
		OwnerName:    "Seed Owner",
		OwnerEmail:   TestEmail("owner"),
		OwnerPhone:   "03001112233",
		Name:         name,
		Location:     "G-11",
		City:         "Islamabad",
		GroundType:   "futsal",
		Dimensions:   "40x20m",
		Facilities:   []string{"parking", "floodlights"},
		PricePerHour: pricePerHour,
	}

	err := pool.QueryRow(ctx, query,
		uuid.New().String(),
		ground.OwnerName, ground.OwnerEmail, ground.OwnerPhone,
		ground.Name, ground.Location, ground.City,
		ground.GroundType, ground.Dimensions, ground.PricePerHour,
		ground.Facilities, status,
	).Scan(&ground.ID, &ground.Status, &ground.PricePerHour)
	if err != nil {
		return nil, fmt.Errorf("failed to seed ground: %w", err)
	}

	return ground, nil
}
