package jobs

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingExpirer cancels stale PENDING bookings.
type BookingExpirer interface {
	ExpirePending(ctx context.Context, days int) ([]string, error)
}

// RoomReconciler aligns room status with today's bookings.
type RoomReconciler interface {
	ReconcileRooms(ctx context.Context) (int, error)
}

// StatisticsRefresher recomputes hotel statistics.
type StatisticsRefresher interface {
	RefreshAll(ctx context.Context, hotelID *uuid.UUID) (int, error)
}

// Runner executes each maintenance job once. It is shared by the in-process
// scheduler and the jobs command.
type Runner struct {
	bookings   BookingExpirer
	rooms      RoomReconciler
	stats      StatisticsRefresher
	expiryDays int
	logger     *zap.Logger
}

// NewRunner creates a Runner. expiryDays is the default age after which a
// PENDING booking is expired.
func NewRunner(bookings BookingExpirer, rooms RoomReconciler, stats StatisticsRefresher, expiryDays int, logger *zap.Logger) *Runner {
	return &Runner{
		bookings:   bookings,
		rooms:      rooms,
		stats:      stats,
		expiryDays: expiryDays,
		logger:     logger,
	}
}

// ExpireStaleBookings cancels PENDING bookings older than the configured
// default age.
func (r *Runner) ExpireStaleBookings(ctx context.Context) (int, error) {
	return r.ExpireBookings(ctx, r.expiryDays)
}

// ExpireBookings cancels PENDING bookings older than days. Zero expires every
// pending booking.
func (r *Runner) ExpireBookings(ctx context.Context, days int) (int, error) {
	expired, err := r.bookings.ExpirePending(ctx, days)
	if err != nil {
		return len(expired), err
	}
	for _, invoice := range expired {
		r.logger.Info("booking expired", zap.String("invoice_id", invoice))
	}
	return len(expired), nil
}

// UpdateRoomAvailability reconciles room status and returns the rooms changed.
func (r *Runner) UpdateRoomAvailability(ctx context.Context) (int, error) {
	return r.rooms.ReconcileRooms(ctx)
}

// RefreshStatistics recomputes one hotel, or every hotel when hotelID is nil.
func (r *Runner) RefreshStatistics(ctx context.Context, hotelID *uuid.UUID) (int, error) {
	return r.stats.RefreshAll(ctx, hotelID)
}
