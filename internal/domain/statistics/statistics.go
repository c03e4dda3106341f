package statistics

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/hotel-yunuen/service-reservation/internal/domain/booking"
	"github.com/hotel-yunuen/service-reservation/internal/domain/review"
)

// HotelStatistics is the materialised aggregate of a hotel's reviews and bookings.
type HotelStatistics struct {
	HotelID                  uuid.UUID `json:"hotel_id"`
	TotalReviews             int64     `json:"total_reviews"`
	AverageRating            float64   `json:"average_rating"`
	AvgCleanliness           float64   `json:"avg_cleanliness"`
	AvgService               float64   `json:"avg_service"`
	AvgLocation              float64   `json:"avg_location"`
	AvgValue                 float64   `json:"avg_value"`
	RecommendationPercentage float64   `json:"recommendation_percentage"`
	TotalBookings            int64     `json:"total_bookings"`
	CompletedBookings        int64     `json:"completed_bookings"`
	CancelledBookings        int64     `json:"cancelled_bookings"`
	LastUpdated              time.Time `json:"last_updated"`
}

// Empty returns all-zero statistics for a hotel that has never been refreshed.
func Empty(hotelID uuid.UUID) *HotelStatistics {
	return &HotelStatistics{HotelID: hotelID}
}

type mean struct {
	sum, n int
}

func (m *mean) add(v *int) {
	if v != nil {
		m.sum += *v
		m.n++
	}
}

func (m mean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return round2(float64(m.sum) / float64(m.n))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Compute recomputes a hotel's statistics from all of its active reviews and
// booking counts. Each detailed axis averages only the reviews that rated it.
func Compute(hotelID uuid.UUID, samples []review.RatingSample, counts booking.Counts, now time.Time) *HotelStatistics {
	s := &HotelStatistics{
		HotelID:           hotelID,
		TotalReviews:      int64(len(samples)),
		TotalBookings:     counts.Total,
		CompletedBookings: counts.Completed,
		CancelledBookings: counts.Cancelled,
		LastUpdated:       now.UTC(),
	}
	if len(samples) == 0 {
		return s
	}

	var overall, cleanliness, service, location, value mean
	recommending := 0
	for _, r := range samples {
		o := r.Overall
		overall.add(&o)
		cleanliness.add(r.Cleanliness)
		service.add(r.Service)
		location.add(r.Location)
		value.add(r.Value)
		if r.WouldRecommend {
			recommending++
		}
	}

	s.AverageRating = overall.value()
	s.AvgCleanliness = cleanliness.value()
	s.AvgService = service.value()
	s.AvgLocation = location.value()
	s.AvgValue = value.value()
	s.RecommendationPercentage = round2(float64(recommending) / float64(len(samples)) * 100)
	return s
}

// StatisticsRepository persists one statistics row per hotel.
type StatisticsRepository interface {
	Upsert(ctx context.Context, s *HotelStatistics) error
	FindByHotel(ctx context.Context, hotelID uuid.UUID) (*HotelStatistics, error)
}
