package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotel-yunuen/service-reservation/internal/domain/booking"
	"github.com/hotel-yunuen/service-reservation/internal/domain/hotel"
	"github.com/hotel-yunuen/service-reservation/internal/domain/review"
	"github.com/hotel-yunuen/service-reservation/internal/domain/statistics"
	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
)

// CreateReviewRequest is the DTO for writing a review.
type CreateReviewRequest struct {
	HotelID           uuid.UUID  `json:"hotel_id"`
	BookingID         *uuid.UUID `json:"booking_id"`
	Rating            int        `json:"rating" binding:"required,min=1,max=5"`
	CleanlinessRating *int       `json:"cleanliness_rating" binding:"omitempty,min=1,max=5"`
	ServiceRating     *int       `json:"service_rating" binding:"omitempty,min=1,max=5"`
	LocationRating    *int       `json:"location_rating" binding:"omitempty,min=1,max=5"`
	ValueRating       *int       `json:"value_rating" binding:"omitempty,min=1,max=5"`
	Title             string     `json:"title" binding:"max=200"`
	Text              string     `json:"review_text" binding:"required"`
	WouldRecommend    *bool      `json:"would_recommend"`
}

// HotelReviewsQuery filters a hotel's review page.
type HotelReviewsQuery struct {
	Rating  int    `form:"rating" binding:"omitempty,min=1,max=5"`
	OrderBy string `form:"order_by" binding:"omitempty,oneof=newest helpful rating_high rating_low"`
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
}

// ReviewDTO is the API representation of a review.
type ReviewDTO struct {
	ID                    uuid.UUID  `json:"id"`
	UserID                uuid.UUID  `json:"user_id"`
	HotelID               uuid.UUID  `json:"hotel_id"`
	BookingID             *uuid.UUID `json:"booking_id,omitempty"`
	Rating                int        `json:"rating"`
	CleanlinessRating     *int       `json:"cleanliness_rating,omitempty"`
	ServiceRating         *int       `json:"service_rating,omitempty"`
	LocationRating        *int       `json:"location_rating,omitempty"`
	ValueRating           *int       `json:"value_rating,omitempty"`
	AverageDetailedRating float64    `json:"average_detailed_rating"`
	Title                 string     `json:"title,omitempty"`
	Text                  string     `json:"review_text"`
	WouldRecommend        bool       `json:"would_recommend"`
	Active                bool       `json:"active"`
	Verified              bool       `json:"verified"`
	HotelResponse         string     `json:"hotel_response,omitempty"`
	HotelResponseDate     *time.Time `json:"hotel_response_date,omitempty"`
	HelpfulCount          int        `json:"helpful_count"`
	CreatedAt             time.Time  `json:"review_date"`
}

// HotelReviewsDTO is a page of a hotel's reviews with aggregate data.
type HotelReviewsDTO struct {
	Hotel              HotelDTO                    `json:"hotel"`
	Reviews            []ReviewDTO                 `json:"reviews"`
	Total              int64                       `json:"total"`
	RatingDistribution map[int]int64               `json:"rating_distribution"`
	Statistics         *statistics.HotelStatistics `json:"statistics"`
}

// HelpfulDTO is the result of toggling a helpful vote.
type HelpfulDTO struct {
	HelpfulCount int  `json:"helpful_count"`
	Voted        bool `json:"voted"`
}

// ReviewService handles reviews and their moderation.
type ReviewService struct {
	reviews  review.ReviewRepository
	bookings booking.BookingRepository
	hotels   hotel.HotelRepository
	stats    *StatisticsService
	now      Clock
	logger   *zap.Logger
}

// NewReviewService creates a ReviewService.
func NewReviewService(
	reviews review.ReviewRepository,
	bookings booking.BookingRepository,
	hotels hotel.HotelRepository,
	stats *StatisticsService,
	now Clock,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		bookings: bookings,
		hotels:   hotels,
		stats:    stats,
		now:      now,
		logger:   logger,
	}
}

// CreateReview stores a review. With a booking it must be the user's own
// paid or confirmed booking that has not been reviewed yet.
func (s *ReviewService) CreateReview(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error) {
	var ref *review.BookingRef
	if req.BookingID != nil {
		b, err := s.bookings.FindByID(ctx, *req.BookingID)
		if err != nil {
			return nil, err
		}
		exists, err := s.reviews.ExistsForBooking(ctx, b.ID())
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.NewConflictError("this booking has already been reviewed")
		}
		ref = &review.BookingRef{ID: b.ID(), UserID: b.UserID(), HotelID: b.HotelID(), Status: b.Status()}
	} else {
		if req.HotelID == uuid.Nil {
			return nil, domain.NewValidationError("hotel_id or booking_id is required")
		}
		if _, err := s.hotels.FindByID(ctx, req.HotelID); err != nil {
			return nil, err
		}
	}

	recommend := true
	if req.WouldRecommend != nil {
		recommend = *req.WouldRecommend
	}

	r, err := review.NewReview(review.NewReviewParams{
		UserID:  userID,
		HotelID: req.HotelID,
		Booking: ref,
		Ratings: review.Ratings{
			Overall:     req.Rating,
			Cleanliness: req.CleanlinessRating,
			Service:     req.ServiceRating,
			Location:    req.LocationRating,
			Value:       req.ValueRating,
		},
		Title:          req.Title,
		Text:           req.Text,
		WouldRecommend: recommend,
	}, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.reviews.Save(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("review created",
		zap.String("review_id", r.ID().String()),
		zap.String("hotel_id", r.HotelID().String()),
		zap.Int("rating", req.Rating),
	)
	s.stats.RecomputeAfterWrite(ctx, r.HotelID())

	dto := toReviewDTO(r)
	return &dto, nil
}

// GetReview returns an active review.
func (s *ReviewService) GetReview(ctx context.Context, id uuid.UUID) (*ReviewDTO, error) {
	r, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.Active() {
		return nil, domain.NewNotFoundError("Review", id.String())
	}
	dto := toReviewDTO(r)
	return &dto, nil
}

// ListReviews returns a page of active reviews, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, page, limit int) ([]ReviewDTO, int64, error) {
	page, limit = normalizePage(page, limit)
	list, total, err := s.reviews.ListActive(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toReviewDTOs(list), total, nil
}

// HotelReviews returns a filtered page of a hotel's active reviews together
// with the rating distribution and statistics.
func (s *ReviewService) HotelReviews(ctx context.Context, slug string, q HotelReviewsQuery) (*HotelReviewsDTO, error) {
	h, err := s.hotels.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	page, limit := normalizePage(q.Page, q.Limit)
	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = review.OrderNewest
	}

	list, total, err := s.reviews.ListByHotel(ctx, h.ID(), review.HotelFilter{Rating: q.Rating, OrderBy: orderBy, Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}
	dist, err := s.reviews.RatingDistribution(ctx, h.ID())
	if err != nil {
		return nil, err
	}
	full := make(map[int]int64, 5)
	for rating := 1; rating <= 5; rating++ {
		full[rating] = dist[rating]
	}
	st, err := s.stats.Get(ctx, h.ID())
	if err != nil {
		return nil, err
	}

	return &HotelReviewsDTO{
		Hotel:              toHotelDTO(h),
		Reviews:            toReviewDTOs(list),
		Total:              total,
		RatingDistribution: full,
		Statistics:         st,
	}, nil
}

// ToggleHelpful adds or removes the user's helpful vote on a review.
func (s *ReviewService) ToggleHelpful(ctx context.Context, userID, reviewID uuid.UUID) (*HelpfulDTO, error) {
	r, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !r.Active() {
		return nil, domain.NewNotFoundError("Review", reviewID.String())
	}
	count, voted, err := s.reviews.ToggleHelpful(ctx, reviewID, userID)
	if err != nil {
		return nil, err
	}
	return &HelpfulDTO{HelpfulCount: count, Voted: voted}, nil
}

// SetActive publishes or hides a review (admin).
func (s *ReviewService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*ReviewDTO, error) {
	return s.moderate(ctx, id, func(r *review.Review, now time.Time) error {
		if active {
			r.Activate(now)
		} else {
			r.Deactivate(now)
		}
		return nil
	})
}

// Respond stores the hotel's answer to a review (admin).
func (s *ReviewService) Respond(ctx context.Context, id uuid.UUID, text string) (*ReviewDTO, error) {
	return s.moderate(ctx, id, func(r *review.Review, now time.Time) error {
		return r.Respond(text, now)
	})
}

func (s *ReviewService) moderate(ctx context.Context, id uuid.UUID, apply func(r *review.Review, now time.Time) error) (*ReviewDTO, error) {
	r, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(r, s.now()); err != nil {
		return nil, err
	}
	if err := s.reviews.Update(ctx, r); err != nil {
		return nil, err
	}
	s.stats.RecomputeAfterWrite(ctx, r.HotelID())

	dto := toReviewDTO(r)
	return &dto, nil
}

func toReviewDTOs(list []*review.Review) []ReviewDTO {
	dtos := make([]ReviewDTO, len(list))
	for i, r := range list {
		dtos[i] = toReviewDTO(r)
	}
	return dtos
}

func toReviewDTO(r *review.Review) ReviewDTO {
	ratings := r.Ratings()
	return ReviewDTO{
		ID:                    r.ID(),
		UserID:                r.UserID(),
		HotelID:               r.HotelID(),
		BookingID:             r.BookingID(),
		Rating:                ratings.Overall,
		CleanlinessRating:     ratings.Cleanliness,
		ServiceRating:         ratings.Service,
		LocationRating:        ratings.Location,
		ValueRating:           ratings.Value,
		AverageDetailedRating: r.AverageDetailedRating(),
		Title:                 r.Title(),
		Text:                  r.Text(),
		WouldRecommend:        r.WouldRecommend(),
		Active:                r.Active(),
		Verified:              r.Verified(),
		HotelResponse:         r.Response(),
		HotelResponseDate:     r.RespondedAt(),
		HelpfulCount:          r.HelpfulCount(),
		CreatedAt:             r.CreatedAt(),
	}
}
