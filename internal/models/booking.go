package models

import "time"

// Booking statuses
const (
	BookingStatusConfirmed           = "confirmed"
	BookingStatusPendingVerification = "pending_verification"
)

// Booking represents a reserved time slot on a ground. Payment proof fields
// are filled in after creation, when the player submits a transaction
// reference and optional screenshot.
type Booking struct {
	ID              string    `json:"id"`
	GroundID        string    `json:"ground_id"`
	PlayerName      string    `json:"player_name"`
	PlayerEmail     string    `json:"player_email"`
	PlayerPhone     string    `json:"player_phone"`
	BookingDate     time.Time `json:"booking_date"`
	TimeSlot        string    `json:"time_slot"`
	TeamSize        int       `json:"team_size"`
	Amount          int       `json:"amount"` // price snapshot at booking time, PKR
	Status          string    `json:"status"`
	TransactionID   *string   `json:"transaction_id,omitempty"`
	PaymentProofURL *string   `json:"payment_proof_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// IsPast reports whether the booked date is before the given day
// (times are compared at day granularity)
func (b *Booking) IsPast(today time.Time) bool {
	y, m, d := today.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	return b.BookingDate.Before(dayStart)
}

// HasPaymentProof reports whether a transaction reference has been attached
func (b *Booking) HasPaymentProof() bool {
	return b.TransactionID != nil && *b.TransactionID != ""
}
