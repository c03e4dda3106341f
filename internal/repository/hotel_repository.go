package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotel-yunuen/service-reservation/internal/domain/hotel"
)

// HotelModel is the GORM persistence model for the hotels table.
type HotelModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(200);not null"`
	Slug         string    `gorm:"type:varchar(220);uniqueIndex;not null"`
	Address      string    `gorm:"type:text;not null"`
	City         string    `gorm:"type:varchar(100);not null"`
	State        string    `gorm:"type:varchar(100);not null"`
	PostalCode   string    `gorm:"type:varchar(10);not null"`
	Phone        string    `gorm:"type:varchar(20);not null"`
	Email        string    `gorm:"type:varchar(254);not null"`
	Description  string    `gorm:"type:text"`
	CheckInTime  string    `gorm:"type:varchar(5);not null;default:'15:00'"`
	CheckOutTime string    `gorm:"type:varchar(5);not null;default:'12:00'"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt    time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (HotelModel) TableName() string {
	return "hotels"
}

// HotelRepositoryImpl is the GORM-based implementation of hotel.HotelRepository.
type HotelRepositoryImpl struct {
	db *gorm.DB
}

// NewHotelRepository creates a new GORM-based hotel repository.
func NewHotelRepository(db *gorm.DB) *HotelRepositoryImpl {
	return &HotelRepositoryImpl{db: db}
}

// Save persists a new hotel.
func (r *HotelRepositoryImpl) Save(ctx context.Context, h *hotel.Hotel) error {
	err := r.db.WithContext(ctx).Create(toHotelModel(h)).Error
	return translateError(err, "hotel slug already exists")
}

// FindByID retrieves a hotel by id.
func (r *HotelRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*hotel.Hotel, error) {
	var model HotelModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err, "Hotel", id.String())
	}
	return toHotelDomain(&model), nil
}

// FindBySlug retrieves an active hotel by slug.
func (r *HotelRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*hotel.Hotel, error) {
	var model HotelModel
	if err := r.db.WithContext(ctx).Where("slug = ? AND active = ?", slug, true).First(&model).Error; err != nil {
		return nil, notFound(err, "Hotel", slug)
	}
	return toHotelDomain(&model), nil
}

// SlugExists reports whether any hotel, active or not, uses slug.
func (r *HotelRepositoryImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&HotelModel{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListActive returns active hotels, oldest first.
func (r *HotelRepositoryImpl) ListActive(ctx context.Context) ([]*hotel.Hotel, error) {
	var models []HotelModel
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	hotels := make([]*hotel.Hotel, len(models))
	for i := range models {
		hotels[i] = toHotelDomain(&models[i])
	}
	return hotels, nil
}

// ListIDs returns the ids of every hotel.
func (r *HotelRepositoryImpl) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&HotelModel{}).Order("created_at ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func toHotelDomain(m *HotelModel) *hotel.Hotel {
	return hotel.Reconstitute(
		m.ID,
		m.Name, m.Slug, m.Address, m.City, m.State, m.PostalCode, m.Phone, m.Email, m.Description,
		m.CheckInTime, m.CheckOutTime,
		m.Active,
		m.CreatedAt, m.UpdatedAt,
	)
}

func toHotelModel(h *hotel.Hotel) *HotelModel {
	return &HotelModel{
		ID:           h.ID(),
		Name:         h.Name(),
		Slug:         h.Slug(),
		Address:      h.Address(),
		City:         h.City(),
		State:        h.State(),
		PostalCode:   h.PostalCode(),
		Phone:        h.Phone(),
		Email:        h.Email(),
		Description:  h.Description(),
		CheckInTime:  h.CheckInTime(),
		CheckOutTime: h.CheckOutTime(),
		Active:       h.Active(),
		CreatedAt:    h.CreatedAt(),
		UpdatedAt:    h.UpdatedAt(),
	}
}
