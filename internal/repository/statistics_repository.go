package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hotel-yunuen/service-reservation/internal/domain/statistics"
)

// HotelStatisticsModel is the GORM model for the hotel_statistics table.
type HotelStatisticsModel struct {
	HotelID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	TotalReviews             int64     `gorm:"not null;default:0"`
	AverageRating            float64   `gorm:"type:numeric(3,2);not null;default:0"`
	AvgCleanliness           float64   `gorm:"type:numeric(3,2);not null;default:0"`
	AvgService               float64   `gorm:"type:numeric(3,2);not null;default:0"`
	AvgLocation              float64   `gorm:"type:numeric(3,2);not null;default:0"`
	AvgValue                 float64   `gorm:"type:numeric(3,2);not null;default:0"`
	RecommendationPercentage float64   `gorm:"type:numeric(5,2);not null;default:0"`
	TotalBookings            int64     `gorm:"not null;default:0"`
	CompletedBookings        int64     `gorm:"not null;default:0"`
	CancelledBookings        int64     `gorm:"not null;default:0"`
	LastUpdated              time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName sets the table name.
func (HotelStatisticsModel) TableName() string { return "hotel_statistics" }

// StatisticsRepositoryImpl is the GORM-based implementation of statistics.StatisticsRepository.
type StatisticsRepositoryImpl struct {
	db *gorm.DB
}

// NewStatisticsRepository creates a new GORM-based statistics repository.
func NewStatisticsRepository(db *gorm.DB) *StatisticsRepositoryImpl {
	return &StatisticsRepositoryImpl{db: db}
}

// Upsert creates the hotel's row on first refresh and overwrites it afterwards.
func (r *StatisticsRepositoryImpl) Upsert(ctx context.Context, s *statistics.HotelStatistics) error {
	model := HotelStatisticsModel(*s)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hotel_id"}},
		UpdateAll: true,
	}).Create(&model).Error
}

// FindByHotel returns the stored statistics of hotelID.
func (r *StatisticsRepositoryImpl) FindByHotel(ctx context.Context, hotelID uuid.UUID) (*statistics.HotelStatistics, error) {
	var model HotelStatisticsModel
	if err := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID).First(&model).Error; err != nil {
		return nil, notFound(err, "HotelStatistics", hotelID.String())
	}
	st := statistics.HotelStatistics(model)
	return &st, nil
}
