package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// DemandCounter is the slice of booking access the pricing heuristic needs
type DemandCounter interface {
	CountByGroundSince(ctx context.Context, groundID string, since time.Time) (int, error)
}

// PriceRecommendation is a suggested slot price with its rationale
type PriceRecommendation struct {
	BasePrice        int     `json:"base_price"`
	RecommendedPrice int     `json:"recommended_price"`
	PercentChange    float64 `json:"percent_change"`
	Reason           string  `json:"reason"`
}

// PricingService suggests slot prices from a small deterministic rule set:
// weekend and evening peak slots raise the price, quiet grounds get a
// discount. Recommendations are bounded to [-20%, +50%] of the base price.
type PricingService struct {
	groundRepo  GroundFetcher
	bookingRepo DemandCounter
	logger      *slog.Logger
}

// NewPricingService creates a new PricingService
func NewPricingService(groundRepo GroundFetcher, bookingRepo DemandCounter, logger *slog.Logger) *PricingService {
	return &PricingService{
		groundRepo:  groundRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// demandWindow is how far back recent bookings count toward demand
const demandWindow = 30 * 24 * time.Hour

// Recommend suggests a price for booking the ground on the given date and
// slot. Unknown slots fall back to off-peak treatment.
func (s *PricingService) Recommend(ctx context.Context, groundID string, date time.Time, timeSlot string) (*PriceRecommendation, error) {
	ground, err := s.groundRepo.GetByID(ctx, groundID)
	if err != nil {
		return nil, err
	}

	recent, err := s.bookingRepo.CountByGroundSince(ctx, groundID, time.Now().Add(-demandWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to count recent bookings: %w", err)
	}

	factor := 1.0

	// Weekends book out fastest
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		factor += 0.15
	}

	// Evening slots (17:00-22:00) are the peak band
	if hour, ok := slotStartHour(timeSlot); ok && hour >= 17 && hour <= 22 {
		factor += 0.15
	}

	// Demand: ~20 bookings/month saturates the signal
	demand := math.Min(1, float64(recent)/20)
	factor += (demand - 0.5) * 0.4

	// Never drop below 80% or rise above 150% of the listed price
	factor = math.Max(0.8, math.Min(1.5, factor))

	recommended := int(math.Round(float64(ground.PricePerHour) * factor))
	percentChange := math.Round((factor-1)*1000) / 10

	rec := &PriceRecommendation{
		BasePrice:        ground.PricePerHour,
		RecommendedPrice: recommended,
		PercentChange:    percentChange,
	}

	switch {
	case recommended > ground.PricePerHour:
		rec.Reason = fmt.Sprintf("High demand expected (+%.1f%%)", percentChange)
	case recommended < ground.PricePerHour:
		rec.Reason = fmt.Sprintf("Low demand, offering discount (%.1f%%)", percentChange)
	default:
		rec.Reason = "Standard pricing"
	}

	return rec, nil
}
