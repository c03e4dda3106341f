package room

import (
	"context"

	"github.com/google/uuid"
)

// Ordering values accepted by RoomTypeFilter.OrderBy.
const (
	OrderDefault   = ""
	OrderPriceAsc  = "price"
	OrderPriceDesc = "-price"
	OrderCapacity  = "capacity"
)

// RoomTypeFilter narrows room type listings. Zero values mean "any".
type RoomTypeFilter struct {
	HotelID       *uuid.UUID
	Category      Category
	MinPriceCents int64
	MaxPriceCents int64
	MinCapacity   int
	OrderBy       string
	Limit         int
}

// RoomTypeRepository defines persistence for room types.
type RoomTypeRepository interface {
	Save(ctx context.Context, t *RoomType) error
	FindByID(ctx context.Context, id uuid.UUID) (*RoomType, error)
	// ListActive returns active room types ordered by category then price
	// unless f.OrderBy says otherwise.
	ListActive(ctx context.Context, f RoomTypeFilter) ([]*RoomType, error)
}

// RoomRepository defines persistence for rooms.
type RoomRepository interface {
	Save(ctx context.Context, r *Room) error
	Update(ctx context.Context, r *Room) error
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)
	ListByType(ctx context.Context, roomTypeID uuid.UUID) ([]*Room, error)
	ListByStatus(ctx context.Context, status Status) ([]*Room, error)
	CountAvailableByType(ctx context.Context, roomTypeID uuid.UUID) (int64, error)
	// HotelID resolves the hotel owning the room through its room type.
	HotelID(ctx context.Context, roomID uuid.UUID) (uuid.UUID, error)
}
