package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotel-yunuen/service-reservation/internal/domain/booking"
	"github.com/hotel-yunuen/service-reservation/internal/domain/hotel"
	"github.com/hotel-yunuen/service-reservation/internal/domain/review"
	"github.com/hotel-yunuen/service-reservation/internal/domain/statistics"
	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
)

// StatisticsService maintains the per-hotel statistics read model.
type StatisticsService struct {
	stats    statistics.StatisticsRepository
	reviews  review.ReviewRepository
	bookings booking.BookingRepository
	hotels   hotel.HotelRepository
	cache    StatisticsCache
	now      Clock
	logger   *zap.Logger
}

// NewStatisticsService creates a StatisticsService. cache may be nil.
func NewStatisticsService(
	stats statistics.StatisticsRepository,
	reviews review.ReviewRepository,
	bookings booking.BookingRepository,
	hotels hotel.HotelRepository,
	cache StatisticsCache,
	now Clock,
	logger *zap.Logger,
) *StatisticsService {
	return &StatisticsService{
		stats:    stats,
		reviews:  reviews,
		bookings: bookings,
		hotels:   hotels,
		cache:    cache,
		now:      now,
		logger:   logger,
	}
}

// Recompute rebuilds the statistics of hotelID from all its reviews and
// bookings, stores them and writes them through to the cache.
func (s *StatisticsService) Recompute(ctx context.Context, hotelID uuid.UUID) (*statistics.HotelStatistics, error) {
	samples, err := s.reviews.ActiveSamples(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	counts, err := s.bookings.CountByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	st := statistics.Compute(hotelID, samples, counts, s.now())
	if err := s.stats.Upsert(ctx, st); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, st); err != nil {
			s.logger.Warn("failed to refresh statistics cache",
				zap.String("hotel_id", hotelID.String()),
				zap.Error(err),
			)
			if err := s.cache.Invalidate(ctx, hotelID); err != nil {
				s.logger.Warn("failed to invalidate statistics cache",
					zap.String("hotel_id", hotelID.String()),
					zap.Error(err),
				)
			}
		}
	}
	return st, nil
}

// RecomputeAfterWrite is called from every booking and review write path.
// The write has already committed, so a failure is logged rather than returned.
func (s *StatisticsService) RecomputeAfterWrite(ctx context.Context, hotelID uuid.UUID) {
	if _, err := s.Recompute(ctx, hotelID); err != nil {
		s.logger.Error("failed to recompute hotel statistics",
			zap.String("hotel_id", hotelID.String()),
			zap.Error(err),
		)
	}
}

// RefreshAll recomputes every hotel, or only hotelID when it is set.
// It returns the number of hotels refreshed.
func (s *StatisticsService) RefreshAll(ctx context.Context, hotelID *uuid.UUID) (int, error) {
	ids := []uuid.UUID{}
	if hotelID != nil {
		if _, err := s.hotels.FindByID(ctx, *hotelID); err != nil {
			return 0, err
		}
		ids = append(ids, *hotelID)
	} else {
		all, err := s.hotels.ListIDs(ctx)
		if err != nil {
			return 0, err
		}
		ids = all
	}

	var errs []error
	refreshed := 0
	for _, id := range ids {
		if _, err := s.Recompute(ctx, id); err != nil {
			errs = append(errs, err)
			continue
		}
		refreshed++
	}
	s.logger.Info("hotel statistics refreshed", zap.Int("hotels", refreshed), zap.Int("failed", len(errs)))
	return refreshed, errors.Join(errs...)
}

// Get returns the statistics of hotelID, trying the cache first. Hotels that
// were never refreshed get all-zero statistics.
func (s *StatisticsService) Get(ctx context.Context, hotelID uuid.UUID) (*statistics.HotelStatistics, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, hotelID)
		if err != nil {
			s.logger.Warn("statistics cache unavailable", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	st, err := s.stats.FindByHotel(ctx, hotelID)
	if err != nil {
		if !domain.IsNotFound(err) {
			return nil, err
		}
		st = statistics.Empty(hotelID)
	}

	if s.cache != nil {
		if _, err := s.cache.SetIfAbsent(ctx, st); err != nil {
			s.logger.Warn("failed to cache statistics", zap.Error(err))
		}
	}
	return st, nil
}

// GetBySlug resolves a hotel slug and returns its statistics.
func (s *StatisticsService) GetBySlug(ctx context.Context, slug string) (*statistics.HotelStatistics, error) {
	h, err := s.hotels.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, h.ID())
}
