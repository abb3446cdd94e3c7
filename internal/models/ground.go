package models

import "time"

// Ground statuses
const (
	GroundStatusPending  = "pending"
	GroundStatusVerified = "verified"
)

// Ground represents a sports ground listed on the platform.
// A ground enters the system through an owner submission (status "pending")
// and becomes publicly bookable once an admin approves it ("verified").
type Ground struct {
	ID           string    `json:"id"`
	OwnerName    string    `json:"owner_name"`
	OwnerEmail   string    `json:"owner_email"`
	OwnerPhone   string    `json:"owner_phone"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	City         string    `json:"city"`
	GroundType   string    `json:"ground_type"`
	Dimensions   string    `json:"dimensions"`
	PricePerHour int       `json:"price_per_hour"`
	Facilities   []string  `json:"facilities"`
	ImageURL     string    `json:"image_url"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	Rating       float64   `json:"rating"`
	ReviewCount  int       `json:"review_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsVerified reports whether the ground has been approved for public listing
func (g *Ground) IsVerified() bool {
	return g.Status == GroundStatusVerified
}

// GroundFilter narrows ground listings. Zero values mean "no constraint".
type GroundFilter struct {
	Location   string  // substring match against location or city
	GroundType string
	MinPrice   int
	MaxPrice   int // 0 means unbounded (the "5000+" band)
	MinRating  float64
}
