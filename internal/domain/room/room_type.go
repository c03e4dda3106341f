package room

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
)

// Category classifies room types.
type Category string

const (
	CategoryBasic    Category = "BASIC"
	CategoryStandard Category = "STANDARD"
	CategoryPremium  Category = "PREMIUM"
	CategoryLuxury   Category = "LUXURY"
	CategorySuite    Category = "SUITE"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryBasic, CategoryStandard, CategoryPremium, CategoryLuxury, CategorySuite}

// ParseCategory validates a category string. Empty means "any".
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if c == "" {
		return c, nil
	}
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", domain.NewValidationError("invalid room category: %s", s)
}

// RoomType is a class of rooms sharing price, capacity and amenities.
type RoomType struct {
	id                 uuid.UUID
	hotelID            uuid.UUID
	name               string
	category           Category
	pricePerNightCents int64
	numberOfBeds       int
	capacity           int
	totalRooms         int
	description        string
	sizeSqm            *float64
	amenities          []string
	active             bool
	createdAt          time.Time
	updatedAt          time.Time
}

// NewRoomTypeParams holds the inputs for NewRoomType.
type NewRoomTypeParams struct {
	HotelID            uuid.UUID
	Name               string
	Category           Category
	PricePerNightCents int64
	NumberOfBeds       int
	Capacity           int
	TotalRooms         int
	Description        string
	SizeSqm            *float64
	Amenities          []string
}

// NewRoomType validates p and creates an active room type.
func NewRoomType(p NewRoomTypeParams, now time.Time) (*RoomType, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, domain.NewValidationError("room type name is required")
	}
	category := p.Category
	if category == "" {
		category = CategoryStandard
	}
	if _, err := ParseCategory(string(category)); err != nil {
		return nil, err
	}
	if p.PricePerNightCents < 0 {
		return nil, domain.NewValidationError("price per night cannot be negative")
	}
	if p.Capacity < 1 {
		return nil, domain.NewValidationError("capacity must be at least 1")
	}
	if p.NumberOfBeds < 1 {
		return nil, domain.NewValidationError("number of beds must be at least 1")
	}
	if p.TotalRooms < 1 {
		return nil, domain.NewValidationError("total rooms must be at least 1")
	}
	if p.SizeSqm != nil && *p.SizeSqm < 0 {
		return nil, domain.NewValidationError("size cannot be negative")
	}

	now = now.UTC()
	return &RoomType{
		id:                 uuid.New(),
		hotelID:            p.HotelID,
		name:               name,
		category:           category,
		pricePerNightCents: p.PricePerNightCents,
		numberOfBeds:       p.NumberOfBeds,
		capacity:           p.Capacity,
		totalRooms:         p.TotalRooms,
		description:        strings.TrimSpace(p.Description),
		sizeSqm:            p.SizeSqm,
		amenities:          normalizeAmenities(p.Amenities),
		active:             true,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

func normalizeAmenities(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// ReconstituteRoomType rebuilds a RoomType from persisted data.
func ReconstituteRoomType(
	id, hotelID uuid.UUID,
	name string,
	category Category,
	pricePerNightCents int64,
	numberOfBeds, capacity, totalRooms int,
	description string,
	sizeSqm *float64,
	amenities []string,
	active bool,
	createdAt, updatedAt time.Time,
) *RoomType {
	return &RoomType{
		id:                 id,
		hotelID:            hotelID,
		name:               name,
		category:           category,
		pricePerNightCents: pricePerNightCents,
		numberOfBeds:       numberOfBeds,
		capacity:           capacity,
		totalRooms:         totalRooms,
		description:        description,
		sizeSqm:            sizeSqm,
		amenities:          amenities,
		active:             active,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

func (t *RoomType) ID() uuid.UUID             { return t.id }
func (t *RoomType) HotelID() uuid.UUID        { return t.hotelID }
func (t *RoomType) Name() string              { return t.name }
func (t *RoomType) Category() Category        { return t.category }
func (t *RoomType) PricePerNightCents() int64 { return t.pricePerNightCents }
func (t *RoomType) NumberOfBeds() int         { return t.numberOfBeds }
func (t *RoomType) Capacity() int             { return t.capacity }
func (t *RoomType) TotalRooms() int           { return t.totalRooms }
func (t *RoomType) Description() string       { return t.description }
func (t *RoomType) SizeSqm() *float64         { return t.sizeSqm }
func (t *RoomType) Amenities() []string       { return t.amenities }
func (t *RoomType) Active() bool              { return t.active }
func (t *RoomType) CreatedAt() time.Time      { return t.createdAt }
func (t *RoomType) UpdatedAt() time.Time      { return t.updatedAt }
