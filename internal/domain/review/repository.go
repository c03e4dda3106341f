package review

import (
	"context"

	"github.com/google/uuid"
)

// Orderings accepted by HotelFilter.OrderBy.
const (
	OrderNewest     = "newest"
	OrderHelpful    = "helpful"
	OrderRatingHigh = "rating_high"
	OrderRatingLow  = "rating_low"
)

// HotelFilter narrows a hotel's review listing.
type HotelFilter struct {
	Rating  int // 0 means any
	OrderBy string
	Page    int
	Limit   int
}

// RatingSample is one active review's contribution to hotel statistics.
type RatingSample struct {
	Ratings
	WouldRecommend bool
}

// ReviewRepository defines persistence for reviews and helpful votes.
type ReviewRepository interface {
	Save(ctx context.Context, r *Review) error
	Update(ctx context.Context, r *Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)
	ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)
	ListActive(ctx context.Context, page, limit int) ([]*Review, int64, error)
	ListByHotel(ctx context.Context, hotelID uuid.UUID, f HotelFilter) ([]*Review, int64, error)
	// Featured returns up to limit active reviews rated at least minRating, newest first.
	Featured(ctx context.Context, hotelID uuid.UUID, minRating, limit int) ([]*Review, error)
	// RatingDistribution counts active reviews per overall rating 1..5.
	RatingDistribution(ctx context.Context, hotelID uuid.UUID) (map[int]int64, error)
	ActiveSamples(ctx context.Context, hotelID uuid.UUID) ([]RatingSample, error)

	// ToggleHelpful adds the user's vote, or removes it if present, and
	// returns the recounted total plus whether the vote now exists.
	ToggleHelpful(ctx context.Context, reviewID, userID uuid.UUID) (count int, voted bool, err error)
}
