package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/groundbook/groundbook/internal/models"
)

// AnalyticsRepository is the slice of booking access the dashboard needs
type AnalyticsRepository interface {
	ListByCreatedRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)
}

// GroundPopularity is one entry in the popular-grounds ranking
type GroundPopularity struct {
	GroundID string `json:"ground_id"`
	Bookings int    `json:"bookings"`
}

// PeakHour is one entry in the peak-hours ranking
type PeakHour struct {
	Hour     int `json:"hour"`
	Bookings int `json:"bookings"`
}

// TrendPoint is one day in a trend series
type TrendPoint struct {
	Date     string `json:"date"`
	Bookings int    `json:"bookings"`
	Revenue  int    `json:"revenue"`
}

// Retention summarizes returning players
type Retention struct {
	RetentionRate  float64 `json:"retention_rate"`
	ReturningUsers int     `json:"returning_users"`
	TotalUsers     int     `json:"total_users"`
}

// Metrics is the aggregated dashboard payload
type Metrics struct {
	TotalBookings  int                `json:"total_bookings"`
	TotalRevenue   int                `json:"total_revenue"`
	PopularGrounds []GroundPopularity `json:"popular_grounds"`
	PeakHours      []PeakHour         `json:"peak_hours"`
	DailyTrend     []TrendPoint       `json:"daily_trend"`
	Retention      Retention          `json:"retention"`
}

// AnalyticsService computes dashboard aggregates over a booking date range
type AnalyticsService struct {
	bookingRepo AnalyticsRepository
	logger      *slog.Logger
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(bookingRepo AnalyticsRepository, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Compute aggregates bookings created inside [start, end]
func (s *AnalyticsService) Compute(ctx context.Context, start, end time.Time) (*Metrics, error) {
	bookings, err := s.bookingRepo.ListByCreatedRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for analytics: %w", err)
	}

	metrics := &Metrics{
		TotalBookings:  len(bookings),
		PopularGrounds: popularGrounds(bookings, 5),
		PeakHours:      peakHours(bookings, 3),
		DailyTrend:     dailyTrend(bookings),
		Retention:      retention(bookings),
	}

	for _, b := range bookings {
		metrics.TotalRevenue += b.Amount
	}

	return metrics, nil
}

// popularGrounds ranks grounds by booking count, keeping the top n
func popularGrounds(bookings []*models.Booking, n int) []GroundPopularity {
	counts := make(map[string]int)
	for _, b := range bookings {
		counts[b.GroundID]++
	}

	ranked := make([]GroundPopularity, 0, len(counts))
	for id, count := range counts {
		ranked = append(ranked, GroundPopularity{GroundID: id, Bookings: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Bookings != ranked[j].Bookings {
			return ranked[i].Bookings > ranked[j].Bookings
		}
		return ranked[i].GroundID < ranked[j].GroundID
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// peakHours ranks starting hours parsed from time slots ("18:00-19:00"),
// keeping the top n. Slots that do not parse are skipped.
func peakHours(bookings []*models.Booking, n int) []PeakHour {
	counts := make(map[int]int)
	for _, b := range bookings {
		hour, ok := slotStartHour(b.TimeSlot)
		if !ok {
			continue
		}
		counts[hour]++
	}

	ranked := make([]PeakHour, 0, len(counts))
	for hour, count := range counts {
		ranked = append(ranked, PeakHour{Hour: hour, Bookings: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Bookings != ranked[j].Bookings {
			return ranked[i].Bookings > ranked[j].Bookings
		}
		return ranked[i].Hour < ranked[j].Hour
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// slotStartHour extracts the starting hour from a slot label like
// "18:00-19:00" or "7:00"
func slotStartHour(slot string) (int, bool) {
	head, _, _ := strings.Cut(slot, ":")
	hour, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}

// dailyTrend buckets bookings and revenue by booked date, ascending
func dailyTrend(bookings []*models.Booking) []TrendPoint {
	byDate := make(map[string]*TrendPoint)
	for _, b := range bookings {
		date := b.BookingDate.Format("2006-01-02")
		point, ok := byDate[date]
		if !ok {
			point = &TrendPoint{Date: date}
			byDate[date] = point
		}
		point.Bookings++
		point.Revenue += b.Amount
	}

	trend := make([]TrendPoint, 0, len(byDate))
	for _, point := range byDate {
		trend = append(trend, *point)
	}

	sort.Slice(trend, func(i, j int) bool { return trend[i].Date < trend[j].Date })
	return trend
}

// retention computes the share of players with more than one booking
func retention(bookings []*models.Booking) Retention {
	perPlayer := make(map[string]int)
	for _, b := range bookings {
		perPlayer[b.PlayerEmail]++
	}

	r := Retention{TotalUsers: len(perPlayer)}
	for _, count := range perPlayer {
		if count > 1 {
			r.ReturningUsers++
		}
	}

	if r.TotalUsers > 0 {
		r.RetentionRate = float64(r.ReturningUsers) / float64(r.TotalUsers) * 100
	}
	return r
}
