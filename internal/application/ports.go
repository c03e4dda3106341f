package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hotel-yunuen/service-reservation/internal/domain/booking"
	"github.com/hotel-yunuen/service-reservation/internal/domain/statistics"
)

// Clock returns the current instant. Services take one so tests can pin time.
type Clock func() time.Time

// BookingEventPublisher emits booking lifecycle events.
type BookingEventPublisher interface {
	PublishBookingEvent(ctx context.Context, eventType string, b *booking.Booking) error
}

// StatisticsCache is a read-through cache in front of the statistics table.
// Recompute overwrites entries with Set; reads only fill missing entries with
// SetIfAbsent so a slow read never replaces newer statistics.
type StatisticsCache interface {
	Get(ctx context.Context, hotelID uuid.UUID) (*statistics.HotelStatistics, bool, error)
	Set(ctx context.Context, s *statistics.HotelStatistics) error
	SetIfAbsent(ctx context.Context, s *statistics.HotelStatistics) (bool, error)
	Invalidate(ctx context.Context, hotelID uuid.UUID) error
}

// Pagination defaults shared by list endpoints.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}
