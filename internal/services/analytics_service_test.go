package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/groundbook/groundbook/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyticsBooking(groundID, playerEmail, slot string, date time.Time, amount int) *models.Booking {
	return &models.Booking{
		ID:          "booking_" + groundID + "_" + slot,
		GroundID:    groundID,
		PlayerEmail: playerEmail,
		BookingDate: date,
		TimeSlot:    slot,
		Amount:      amount,
		Status:      models.BookingStatusConfirmed,
	}
}

func TestAnalyticsService_Compute(t *testing.T) {
	day1 := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	bookings := []*models.Booking{
		analyticsBooking("ground_a", "ali@example.com", "18:00-19:00", day1, 2000),
		analyticsBooking("ground_a", "ali@example.com", "19:00-20:00", day2, 2000),
		analyticsBooking("ground_b", "sara@example.com", "18:00-19:00", day2, 3000),
	}

	repo := &MockBookingRepository{
		ListByCreatedRangeFunc: func(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
			return bookings, nil
		},
	}

	svc := NewAnalyticsService(repo, slog.Default())

	metrics, err := svc.Compute(context.Background(), day1, day2.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, 3, metrics.TotalBookings)
	assert.Equal(t, 7000, metrics.TotalRevenue)

	require.Len(t, metrics.PopularGrounds, 2)
	assert.Equal(t, GroundPopularity{GroundID: "ground_a", Bookings: 2}, metrics.PopularGrounds[0])

	require.Len(t, metrics.PeakHours, 2)
	assert.Equal(t, PeakHour{Hour: 18, Bookings: 2}, metrics.PeakHours[0])
	assert.Equal(t, PeakHour{Hour: 19, Bookings: 1}, metrics.PeakHours[1])

	require.Len(t, metrics.DailyTrend, 2)
	assert.Equal(t, TrendPoint{Date: "2025-03-10", Bookings: 1, Revenue: 2000}, metrics.DailyTrend[0])
	assert.Equal(t, TrendPoint{Date: "2025-03-11", Bookings: 2, Revenue: 5000}, metrics.DailyTrend[1])

	assert.Equal(t, 2, metrics.Retention.TotalUsers)
	assert.Equal(t, 1, metrics.Retention.ReturningUsers)
	assert.InDelta(t, 50.0, metrics.Retention.RetentionRate, 0.001)
}

func TestAnalyticsService_Compute_Empty(t *testing.T) {
	repo := &MockBookingRepository{}

	svc := NewAnalyticsService(repo, slog.Default())

	metrics, err := svc.Compute(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)

	assert.Zero(t, metrics.TotalBookings)
	assert.Zero(t, metrics.TotalRevenue)
	assert.Empty(t, metrics.PopularGrounds)
	assert.Empty(t, metrics.PeakHours)
	assert.Empty(t, metrics.DailyTrend)
	assert.Zero(t, metrics.Retention.RetentionRate)
}

func TestPopularGrounds_KeepsTopN(t *testing.T) {
	var bookings []*models.Booking
	grounds := []string{"a", "a", "a", "b", "b", "c", "d", "e", "f", "g"}
	for i, g := range grounds {
		bookings = append(bookings, analyticsBooking(g, "p@example.com", "10:00-11:00",
			time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i), 1000))
	}

	top := popularGrounds(bookings, 5)

	require.Len(t, top, 5)
	assert.Equal(t, "a", top[0].GroundID)
	assert.Equal(t, 3, top[0].Bookings)
	assert.Equal(t, "b", top[1].GroundID)
}

func TestSlotStartHour(t *testing.T) {
	tests := []struct {
		slot string
		hour int
		ok   bool
	}{
		{"18:00-19:00", 18, true},
		{"7:00", 7, true},
		{"07:00-08:00", 7, true},
		{"evening", 0, false},
		{"25:00-26:00", 0, false},
		{"", 0, false},
	}

	for _, tc := range tests {
		hour, ok := slotStartHour(tc.slot)
		assert.Equal(t, tc.ok, ok, "slot %q", tc.slot)
		if tc.ok {
			assert.Equal(t, tc.hour, hour, "slot %q", tc.slot)
		}
	}
}
