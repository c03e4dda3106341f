package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Counts summarises a hotel's bookings for statistics.
type Counts struct {
	Total     int64
	Completed int64 // PAID or CONFIRMED
	Cancelled int64
}

// ListFilter narrows booking listings. Zero values mean "any".
type ListFilter struct {
	UserID *uuid.UUID
	Status Status
	Page   int
	Limit  int
}

// BookingRepository defines the persistence contract for Booking aggregates.
type BookingRepository interface {
	// CreateExclusive persists a new booking inside a transaction that locks
	// the room row and rejects the write with a conflict error when a PAID or
	// CONFIRMED booking already overlaps the stay.
	CreateExclusive(ctx context.Context, b *Booking) error

	// Update persists changes with optimistic locking on version.
	Update(ctx context.Context, b *Booking) error

	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	List(ctx context.Context, f ListFilter) ([]*Booking, int64, error)

	// CountUpcoming counts the user's PAID or CONFIRMED bookings that check in
	// on or after today.
	CountUpcoming(ctx context.Context, userID uuid.UUID, today time.Time) (int64, error)

	// BlockingRanges returns the stays of PAID or CONFIRMED bookings on roomID
	// that overlap stay.
	BlockingRanges(ctx context.Context, roomID uuid.UUID, stay DateRange) ([]DateRange, error)

	// ActiveOn returns the PAID or CONFIRMED bookings covering day.
	ActiveOn(ctx context.Context, day time.Time) ([]*Booking, error)

	// HasActiveOn reports whether roomID has a PAID or CONFIRMED booking covering day.
	HasActiveOn(ctx context.Context, roomID uuid.UUID, day time.Time) (bool, error)

	// HasFutureBlocking reports whether roomID has a PAID or CONFIRMED booking
	// checking in after day.
	HasFutureBlocking(ctx context.Context, roomID uuid.UUID, day time.Time) (bool, error)

	// FindPendingBookedBefore returns PENDING bookings created before cutoff.
	FindPendingBookedBefore(ctx context.Context, cutoff time.Time) ([]*Booking, error)

	CountByHotel(ctx context.Context, hotelID uuid.UUID) (Counts, error)
}
