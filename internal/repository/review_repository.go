package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotel-yunuen/service-reservation/internal/domain/review"
)

// ReviewModel is the GORM persistence model for the reviews table.
type ReviewModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	HotelID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	BookingID         *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Rating            int        `gorm:"type:smallint;not null"`
	CleanlinessRating *int       `gorm:"type:smallint"`
	ServiceRating     *int       `gorm:"type:smallint"`
	LocationRating    *int       `gorm:"type:smallint"`
	ValueRating       *int       `gorm:"type:smallint"`
	Title             string     `gorm:"type:varchar(200)"`
	ReviewText        string     `gorm:"type:text;not null"`
	WouldRecommend    bool       `gorm:"not null;default:true"`
	IsActive          bool       `gorm:"not null;default:true"`
	IsVerified        bool       `gorm:"not null;default:false"`
	HotelResponse     string     `gorm:"type:text"`
	HotelResponseDate *time.Time `gorm:"type:timestamptz"`
	HelpfulCount      int        `gorm:"not null;default:0"`
	CreatedAt         time.Time  `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt         time.Time  `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}

// ReviewHelpfulModel records one user's helpful vote on a review.
type ReviewHelpfulModel struct {
	ReviewID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (ReviewHelpfulModel) TableName() string {
	return "review_helpful"
}

// ReviewRepositoryImpl is the GORM-based implementation of review.ReviewRepository.
type ReviewRepositoryImpl struct {
	db *gorm.DB
}

// NewReviewRepository creates a new GORM-based review repository.
func NewReviewRepository(db *gorm.DB) *ReviewRepositoryImpl {
	return &ReviewRepositoryImpl{db: db}
}

// Save persists a new review.
func (r *ReviewRepositoryImpl) Save(ctx context.Context, rv *review.Review) error {
	err := r.db.WithContext(ctx).Create(toReviewModel(rv)).Error
	return translateError(err, "this booking has already been reviewed")
}

// Update persists moderation changes.
func (r *ReviewRepositoryImpl) Update(ctx context.Context, rv *review.Review) error {
	result := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("id = ?", rv.ID()).
		Updates(map[string]any{
			"is_active":           rv.Active(),
			"hotel_response":      rv.Response(),
			"hotel_response_date": rv.RespondedAt(),
			"updated_at":          rv.UpdatedAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "Review", rv.ID().String())
	}
	return nil
}

// FindByID retrieves a review by id.
func (r *ReviewRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var model ReviewModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err, "Review", id.String())
	}
	return toReviewDomain(&model), nil
}

// ExistsForBooking reports whether bookingID already has a review.
func (r *ReviewRepositoryImpl) ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ReviewModel{}).Where("booking_id = ?", bookingID).Count(&count).Error
	return count > 0, err
}

// ListActive returns a page of active reviews, newest first.
func (r *ReviewRepositoryImpl) ListActive(ctx context.Context, page, limit int) ([]*review.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&ReviewModel{}).Where("is_active = ?", true)
	return r.page(q, "created_at DESC", page, limit)
}

// ListByHotel returns a filtered page of a hotel's active reviews.
func (r *ReviewRepositoryImpl) ListByHotel(ctx context.Context, hotelID uuid.UUID, f review.HotelFilter) ([]*review.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&ReviewModel{}).Where("hotel_id = ? AND is_active = ?", hotelID, true)
	if f.Rating > 0 {
		q = q.Where("rating = ?", f.Rating)
	}

	order := "created_at DESC"
	switch f.OrderBy {
	case review.OrderHelpful:
		order = "helpful_count DESC, created_at DESC"
	case review.OrderRatingHigh:
		order = "rating DESC, created_at DESC"
	case review.OrderRatingLow:
		order = "rating ASC, created_at DESC"
	}
	return r.page(q, order, f.Page, f.Limit)
}

func (r *ReviewRepositoryImpl) page(q *gorm.DB, order string, page, limit int) ([]*review.Review, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var models []ReviewModel
	if err := q.Order(order).Offset(offset(page, limit)).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}
	return toReviewDomains(models), total, nil
}

// Featured returns up to limit active reviews rated at least minRating, newest first.
func (r *ReviewRepositoryImpl) Featured(ctx context.Context, hotelID uuid.UUID, minRating, limit int) ([]*review.Review, error) {
	var models []ReviewModel
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND is_active = ? AND rating >= ?", hotelID, true, minRating).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toReviewDomains(models), nil
}

// RatingDistribution counts active reviews per overall rating.
func (r *ReviewRepositoryImpl) RatingDistribution(ctx context.Context, hotelID uuid.UUID) (map[int]int64, error) {
	type ratingCount struct {
		Rating int
		Count  int64
	}
	var results []ratingCount
	if err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Select("rating, count(*) as count").
		Where("hotel_id = ? AND is_active = ?", hotelID, true).
		Group("rating").
		Find(&results).Error; err != nil {
		return nil, err
	}
	dist := make(map[int]int64, len(results))
	for _, rc := range results {
		dist[rc.Rating] = rc.Count
	}
	return dist, nil
}

// ActiveSamples returns the ratings of every active review of hotelID.
func (r *ReviewRepositoryImpl) ActiveSamples(ctx context.Context, hotelID uuid.UUID) ([]review.RatingSample, error) {
	var models []ReviewModel
	if err := r.db.WithContext(ctx).
		Select("rating", "cleanliness_rating", "service_rating", "location_rating", "value_rating", "would_recommend").
		Where("hotel_id = ? AND is_active = ?", hotelID, true).
		Find(&models).Error; err != nil {
		return nil, err
	}
	samples := make([]review.RatingSample, len(models))
	for i, m := range models {
		samples[i] = review.RatingSample{Ratings: ratingsOf(&m), WouldRecommend: m.WouldRecommend}
	}
	return samples, nil
}

// ToggleHelpful adds or removes the user's vote and stores the recounted total.
func (r *ReviewRepositoryImpl) ToggleHelpful(ctx context.Context, reviewID, userID uuid.UUID) (int, bool, error) {
	var (
		count int64
		voted bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed := tx.Where("review_id = ? AND user_id = ?", reviewID, userID).Delete(&ReviewHelpfulModel{})
		if removed.Error != nil {
			return removed.Error
		}
		if removed.RowsAffected == 0 {
			if err := tx.Create(&ReviewHelpfulModel{ReviewID: reviewID, UserID: userID, CreatedAt: time.Now().UTC()}).Error; err != nil {
				return err
			}
			voted = true
		}

		if err := tx.Model(&ReviewHelpfulModel{}).Where("review_id = ?", reviewID).Count(&count).Error; err != nil {
			return err
		}
		return tx.Model(&ReviewModel{}).Where("id = ?", reviewID).UpdateColumn("helpful_count", count).Error
	})
	if err != nil {
		return 0, false, translateError(err, "helpful vote already recorded")
	}
	return int(count), voted, nil
}

func ratingsOf(m *ReviewModel) review.Ratings {
	return review.Ratings{
		Overall:     m.Rating,
		Cleanliness: m.CleanlinessRating,
		Service:     m.ServiceRating,
		Location:    m.LocationRating,
		Value:       m.ValueRating,
	}
}

func toReviewDomains(models []ReviewModel) []*review.Review {
	reviews := make([]*review.Review, len(models))
	for i := range models {
		reviews[i] = toReviewDomain(&models[i])
	}
	return reviews
}

func toReviewDomain(m *ReviewModel) *review.Review {
	return review.Reconstitute(
		m.ID, m.UserID, m.HotelID,
		m.BookingID,
		ratingsOf(m),
		m.Title, m.ReviewText,
		m.WouldRecommend, m.IsActive, m.IsVerified,
		m.HotelResponse,
		m.HotelResponseDate,
		m.HelpfulCount,
		m.CreatedAt, m.UpdatedAt,
	)
}

func toReviewModel(rv *review.Review) *ReviewModel {
	ratings := rv.Ratings()
	return &ReviewModel{
		ID:                rv.ID(),
		UserID:            rv.UserID(),
		HotelID:           rv.HotelID(),
		BookingID:         rv.BookingID(),
		Rating:            ratings.Overall,
		CleanlinessRating: ratings.Cleanliness,
		ServiceRating:     ratings.Service,
		LocationRating:    ratings.Location,
		ValueRating:       ratings.Value,
		Title:             rv.Title(),
		ReviewText:        rv.Text(),
		WouldRecommend:    rv.WouldRecommend(),
		IsActive:          rv.Active(),
		IsVerified:        rv.Verified(),
		HotelResponse:     rv.Response(),
		HotelResponseDate: rv.RespondedAt(),
		HelpfulCount:      rv.HelpfulCount(),
		CreatedAt:         rv.CreatedAt(),
		UpdatedAt:         rv.UpdatedAt(),
	}
}
