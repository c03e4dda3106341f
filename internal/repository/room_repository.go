package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotel-yunuen/service-reservation/internal/domain/room"
)

// RoomTypeModel is the GORM persistence model for the room_types table.
type RoomTypeModel struct {
	ID                 uuid.UUID              `gorm:"type:uuid;primaryKey"`
	HotelID            uuid.UUID              `gorm:"type:uuid;not null;index"`
	Name               string                 `gorm:"type:varchar(100);uniqueIndex;not null"`
	Category           string                 `gorm:"type:varchar(20);not null;default:'STANDARD'"`
	PricePerNightCents int64                  `gorm:"not null"`
	NumberOfBeds       int                    `gorm:"not null;default:1"`
	Capacity           int                    `gorm:"not null"`
	TotalRooms         int                    `gorm:"not null;default:1"`
	Description        string                 `gorm:"type:text"`
	SizeSqm            *float64               `gorm:"type:numeric(6,2)"`
	Active             bool                   `gorm:"not null;default:true"`
	Amenities          []RoomTypeAmenityModel `gorm:"foreignKey:RoomTypeID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time              `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt          time.Time              `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (RoomTypeModel) TableName() string {
	return "room_types"
}

// RoomTypeAmenityModel links an amenity name to a room type.
type RoomTypeAmenityModel struct {
	RoomTypeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"type:varchar(100);primaryKey"`
}

// TableName specifies the table name for GORM.
func (RoomTypeAmenityModel) TableName() string {
	return "room_type_amenities"
}

// RoomModel is the GORM persistence model for the rooms table.
type RoomModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomTypeID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Number      string    `gorm:"column:room_number;type:varchar(10);uniqueIndex;not null"`
	Floor       int       `gorm:"not null;default:1"`
	Status      string    `gorm:"type:varchar(20);not null;default:'AVAILABLE'"`
	IsAvailable bool      `gorm:"not null;default:true"`
	Notes       string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt   time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (RoomModel) TableName() string {
	return "rooms"
}

// RoomTypeRepositoryImpl is the GORM-based implementation of room.RoomTypeRepository.
type RoomTypeRepositoryImpl struct {
	db *gorm.DB
}

// NewRoomTypeRepository creates a new GORM-based room type repository.
func NewRoomTypeRepository(db *gorm.DB) *RoomTypeRepositoryImpl {
	return &RoomTypeRepositoryImpl{db: db}
}

// Save persists a new room type together with its amenities.
func (r *RoomTypeRepositoryImpl) Save(ctx context.Context, t *room.RoomType) error {
	err := r.db.WithContext(ctx).Create(toRoomTypeModel(t)).Error
	return translateError(err, "room type name already exists")
}

// FindByID retrieves a room type by id.
func (r *RoomTypeRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*room.RoomType, error) {
	var model RoomTypeModel
	if err := r.db.WithContext(ctx).Preload("Amenities").Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err, "RoomType", id.String())
	}
	return toRoomTypeDomain(&model), nil
}

// categoryRank orders categories from BASIC to SUITE.
const categoryRank = "CASE category WHEN 'BASIC' THEN 1 WHEN 'STANDARD' THEN 2 WHEN 'PREMIUM' THEN 3 WHEN 'LUXURY' THEN 4 WHEN 'SUITE' THEN 5 ELSE 6 END"

// ListActive returns active room types matching f.
func (r *RoomTypeRepositoryImpl) ListActive(ctx context.Context, f room.RoomTypeFilter) ([]*room.RoomType, error) {
	q := r.db.WithContext(ctx).Preload("Amenities").Where("active = ?", true)
	if f.HotelID != nil {
		q = q.Where("hotel_id = ?", *f.HotelID)
	}
	if f.Category != "" {
		q = q.Where("category = ?", string(f.Category))
	}
	if f.MinPriceCents > 0 {
		q = q.Where("price_per_night_cents >= ?", f.MinPriceCents)
	}
	if f.MaxPriceCents > 0 {
		q = q.Where("price_per_night_cents <= ?", f.MaxPriceCents)
	}
	if f.MinCapacity > 0 {
		q = q.Where("capacity >= ?", f.MinCapacity)
	}

	switch f.OrderBy {
	case room.OrderPriceAsc:
		q = q.Order("price_per_night_cents ASC")
	case room.OrderPriceDesc:
		q = q.Order("price_per_night_cents DESC")
	case room.OrderCapacity:
		q = q.Order("capacity ASC").Order("price_per_night_cents ASC")
	default:
		q = q.Order(categoryRank).Order("price_per_night_cents ASC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var models []RoomTypeModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	types := make([]*room.RoomType, len(models))
	for i := range models {
		types[i] = toRoomTypeDomain(&models[i])
	}
	return types, nil
}

// RoomRepositoryImpl is the GORM-based implementation of room.RoomRepository.
type RoomRepositoryImpl struct {
	db *gorm.DB
}

// NewRoomRepository creates a new GORM-based room repository.
func NewRoomRepository(db *gorm.DB) *RoomRepositoryImpl {
	return &RoomRepositoryImpl{db: db}
}

// Save persists a new room.
func (r *RoomRepositoryImpl) Save(ctx context.Context, rm *room.Room) error {
	err := r.db.WithContext(ctx).Create(toRoomModel(rm)).Error
	return translateError(err, "room number already exists")
}

// Update persists the room's status, availability and notes.
func (r *RoomRepositoryImpl) Update(ctx context.Context, rm *room.Room) error {
	result := r.db.WithContext(ctx).
		Model(&RoomModel{}).
		Where("id = ?", rm.ID()).
		Updates(map[string]any{
			"status":       string(rm.Status()),
			"is_available": rm.Available(),
			"notes":        rm.Notes(),
			"updated_at":   rm.UpdatedAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "Room", rm.ID().String())
	}
	return nil
}

// FindByID retrieves a room by id.
func (r *RoomRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*room.Room, error) {
	var model RoomModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err, "Room", id.String())
	}
	return toRoomDomain(&model), nil
}

// ListByType returns the rooms of a room type ordered by number.
func (r *RoomRepositoryImpl) ListByType(ctx context.Context, roomTypeID uuid.UUID) ([]*room.Room, error) {
	return r.list(r.db.WithContext(ctx).Where("room_type_id = ?", roomTypeID))
}

// ListByStatus returns the rooms in status.
func (r *RoomRepositoryImpl) ListByStatus(ctx context.Context, status room.Status) ([]*room.Room, error) {
	return r.list(r.db.WithContext(ctx).Where("status = ?", string(status)))
}

func (r *RoomRepositoryImpl) list(q *gorm.DB) ([]*room.Room, error) {
	var models []RoomModel
	if err := q.Order("room_number ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	rooms := make([]*room.Room, len(models))
	for i := range models {
		rooms[i] = toRoomDomain(&models[i])
	}
	return rooms, nil
}

// CountAvailableByType counts the rooms of a type whose availability flag is set.
func (r *RoomRepositoryImpl) CountAvailableByType(ctx context.Context, roomTypeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&RoomModel{}).
		Where("room_type_id = ? AND is_available = ?", roomTypeID, true).
		Count(&count).Error
	return count, err
}

// HotelID resolves the hotel owning roomID.
func (r *RoomRepositoryImpl) HotelID(ctx context.Context, roomID uuid.UUID) (uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&RoomModel{}).
		Joins("JOIN room_types ON room_types.id = rooms.room_type_id").
		Where("rooms.id = ?", roomID).
		Pluck("room_types.hotel_id", &ids).Error
	if err != nil {
		return uuid.Nil, err
	}
	if len(ids) == 0 {
		return uuid.Nil, notFound(gorm.ErrRecordNotFound, "Room", roomID.String())
	}
	return ids[0], nil
}

func toRoomTypeDomain(m *RoomTypeModel) *room.RoomType {
	var amenities []string
	for _, a := range m.Amenities {
		amenities = append(amenities, a.Name)
	}
	return room.ReconstituteRoomType(
		m.ID, m.HotelID,
		m.Name,
		room.Category(m.Category),
		m.PricePerNightCents,
		m.NumberOfBeds, m.Capacity, m.TotalRooms,
		m.Description,
		m.SizeSqm,
		amenities,
		m.Active,
		m.CreatedAt, m.UpdatedAt,
	)
}

func toRoomTypeModel(t *room.RoomType) *RoomTypeModel {
	amenities := make([]RoomTypeAmenityModel, len(t.Amenities()))
	for i, name := range t.Amenities() {
		amenities[i] = RoomTypeAmenityModel{RoomTypeID: t.ID(), Name: name}
	}
	return &RoomTypeModel{
		ID:                 t.ID(),
		HotelID:            t.HotelID(),
		Name:               t.Name(),
		Category:           string(t.Category()),
		PricePerNightCents: t.PricePerNightCents(),
		NumberOfBeds:       t.NumberOfBeds(),
		Capacity:           t.Capacity(),
		TotalRooms:         t.TotalRooms(),
		Description:        t.Description(),
		SizeSqm:            t.SizeSqm(),
		Active:             t.Active(),
		Amenities:          amenities,
		CreatedAt:          t.CreatedAt(),
		UpdatedAt:          t.UpdatedAt(),
	}
}

func toRoomDomain(m *RoomModel) *room.Room {
	return room.ReconstituteRoom(m.ID, m.RoomTypeID, m.Number, m.Floor, room.Status(m.Status), m.IsAvailable, m.Notes, m.CreatedAt, m.UpdatedAt)
}

func toRoomModel(rm *room.Room) *RoomModel {
	return &RoomModel{
		ID:          rm.ID(),
		RoomTypeID:  rm.RoomTypeID(),
		Number:      rm.Number(),
		Floor:       rm.Floor(),
		Status:      string(rm.Status()),
		IsAvailable: rm.Available(),
		Notes:       rm.Notes(),
		CreatedAt:   rm.CreatedAt(),
		UpdatedAt:   rm.UpdatedAt(),
	}
}
