package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotel-yunuen/service-reservation/internal/domain/booking"
	"github.com/hotel-yunuen/service-reservation/internal/domain/hotel"
	"github.com/hotel-yunuen/service-reservation/internal/domain/room"
)

// CreateRoomTypeRequest is the DTO for adding a room type.
type CreateRoomTypeRequest struct {
	HotelID            uuid.UUID `json:"hotel_id" binding:"required"`
	Name               string    `json:"name" binding:"required,max=100"`
	Category           string    `json:"category" binding:"omitempty,oneof=BASIC STANDARD PREMIUM LUXURY SUITE"`
	PricePerNightCents int64     `json:"price_per_night_cents" binding:"gte=0"`
	NumberOfBeds       int       `json:"number_of_beds" binding:"required,gte=1"`
	Capacity           int       `json:"capacity" binding:"required,gte=1"`
	TotalRooms         int       `json:"total_rooms" binding:"required,gte=1"`
	Description        string    `json:"description" binding:"required"`
	SizeSqm            *float64  `json:"size_sqm" binding:"omitempty,gte=0"`
	Amenities          []string  `json:"amenities"`
}

// CreateRoomRequest is the DTO for adding a room.
type CreateRoomRequest struct {
	RoomTypeID uuid.UUID `json:"room_type_id" binding:"required"`
	Number     string    `json:"room_number" binding:"required,max=10"`
	Floor      int       `json:"floor" binding:"gte=0"`
	Notes      string    `json:"notes"`
}

// RoomTypeQuery filters the public room type listing.
type RoomTypeQuery struct {
	Category    string `form:"category"`
	MinPrice    int64  `form:"min_price" binding:"gte=0"`
	MaxPrice    int64  `form:"max_price" binding:"gte=0"`
	MinCapacity int    `form:"capacity" binding:"gte=0"`
	OrderBy     string `form:"order_by" binding:"omitempty,oneof=price -price capacity"`
}

// RoomTypeDTO is the API representation of a room type.
type RoomTypeDTO struct {
	ID                 uuid.UUID     `json:"id"`
	HotelID            uuid.UUID     `json:"hotel_id"`
	Name               string        `json:"name"`
	Category           room.Category `json:"category"`
	PricePerNightCents int64         `json:"price_per_night_cents"`
	NumberOfBeds       int           `json:"number_of_beds"`
	Capacity           int           `json:"capacity"`
	TotalRooms         int           `json:"total_rooms"`
	Description        string        `json:"description"`
	SizeSqm            *float64      `json:"size_sqm,omitempty"`
	Amenities          []string      `json:"amenities"`
}

// RoomTypeDetailDTO adds the number of bookable rooms.
type RoomTypeDetailDTO struct {
	RoomTypeDTO
	AvailableRoomsCount int `json:"available_rooms_count"`
}

// RoomDTO is the API representation of a room.
type RoomDTO struct {
	ID         uuid.UUID   `json:"id"`
	RoomTypeID uuid.UUID   `json:"room_type_id"`
	Number     string      `json:"room_number"`
	Floor      int         `json:"floor"`
	Status     room.Status `json:"status"`
	Available  bool        `json:"is_available"`
	Notes      string      `json:"notes,omitempty"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// AvailabilityDTO answers a check-availability query.
type AvailabilityDTO struct {
	RoomTypeID         uuid.UUID   `json:"room_type_id"`
	CheckIn            string      `json:"check_in"`
	CheckOut           string      `json:"check_out"`
	Available          bool        `json:"available"`
	AvailableCount     int         `json:"available_count"`
	AvailableRoomIDs   []uuid.UUID `json:"available_room_ids"`
	Nights             int         `json:"nights"`
	PricePerNightCents int64       `json:"price_per_night_cents"`
	TotalPriceCents    int64       `json:"total_price_cents"`
}

// RoomService manages the catalogue and room housekeeping state.
type RoomService struct {
	hotels    hotel.HotelRepository
	roomTypes room.RoomTypeRepository
	rooms     room.RoomRepository
	bookings  booking.BookingRepository
	now       Clock
	logger    *zap.Logger
}

// NewRoomService creates a RoomService.
func NewRoomService(
	hotels hotel.HotelRepository,
	roomTypes room.RoomTypeRepository,
	rooms room.RoomRepository,
	bookings booking.BookingRepository,
	now Clock,
	logger *zap.Logger,
) *RoomService {
	return &RoomService{
		hotels:    hotels,
		roomTypes: roomTypes,
		rooms:     rooms,
		bookings:  bookings,
		now:       now,
		logger:    logger,
	}
}

// CreateRoomType adds a room type to an existing hotel.
func (s *RoomService) CreateRoomType(ctx context.Context, req CreateRoomTypeRequest) (*RoomTypeDTO, error) {
	if _, err := s.hotels.FindByID(ctx, req.HotelID); err != nil {
		return nil, err
	}
	category, err := room.ParseCategory(req.Category)
	if err != nil {
		return nil, err
	}

	t, err := room.NewRoomType(room.NewRoomTypeParams{
		HotelID:            req.HotelID,
		Name:               req.Name,
		Category:           category,
		PricePerNightCents: req.PricePerNightCents,
		NumberOfBeds:       req.NumberOfBeds,
		Capacity:           req.Capacity,
		TotalRooms:         req.TotalRooms,
		Description:        req.Description,
		SizeSqm:            req.SizeSqm,
		Amenities:          req.Amenities,
	}, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.roomTypes.Save(ctx, t); err != nil {
		return nil, err
	}

	dto := toRoomTypeDTO(t)
	return &dto, nil
}

// CreateRoom adds a room to an existing room type.
func (s *RoomService) CreateRoom(ctx context.Context, req CreateRoomRequest) (*RoomDTO, error) {
	if _, err := s.roomTypes.FindByID(ctx, req.RoomTypeID); err != nil {
		return nil, err
	}
	r, err := room.NewRoom(req.RoomTypeID, req.Number, req.Floor, req.Notes, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.rooms.Save(ctx, r); err != nil {
		return nil, err
	}

	dto := toRoomDTO(r)
	return &dto, nil
}

// SetRoomStatus applies a housekeeping status chosen by staff.
func (s *RoomService) SetRoomStatus(ctx context.Context, roomID uuid.UUID, status string) (*RoomDTO, error) {
	st, err := room.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	r, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	r.SetStatus(st, s.now())
	if err := s.rooms.Update(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info("room status changed", zap.String("room_id", roomID.String()), zap.String("status", string(st)))

	dto := toRoomDTO(r)
	return &dto, nil
}

// ListRoomTypes returns active room types matching q.
func (s *RoomService) ListRoomTypes(ctx context.Context, q RoomTypeQuery) ([]RoomTypeDTO, error) {
	category, err := room.ParseCategory(q.Category)
	if err != nil {
		return nil, err
	}
	types, err := s.roomTypes.ListActive(ctx, room.RoomTypeFilter{
		Category:      category,
		MinPriceCents: q.MinPrice,
		MaxPriceCents: q.MaxPrice,
		MinCapacity:   q.MinCapacity,
		OrderBy:       q.OrderBy,
	})
	if err != nil {
		return nil, err
	}

	dtos := make([]RoomTypeDTO, len(types))
	for i, t := range types {
		dtos[i] = toRoomTypeDTO(t)
	}
	return dtos, nil
}

// GetRoomType returns a room type with its available room count. With a stay
// the count uses date-range availability, otherwise the rooms' availability flag.
func (s *RoomService) GetRoomType(ctx context.Context, id uuid.UUID, stay *booking.DateRange) (*RoomTypeDetailDTO, error) {
	t, err := s.roomTypes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var count int
	if stay != nil {
		available, err := s.AvailableRooms(ctx, id, *stay)
		if err != nil {
			return nil, err
		}
		count = len(available)
	} else {
		n, err := s.rooms.CountAvailableByType(ctx, id)
		if err != nil {
			return nil, err
		}
		count = int(n)
	}

	return &RoomTypeDetailDTO{RoomTypeDTO: toRoomTypeDTO(t), AvailableRoomsCount: count}, nil
}

// CheckAvailability reports how many rooms of a type are free for the stay
// and what it costs before discounts and tax.
func (s *RoomService) CheckAvailability(ctx context.Context, roomTypeID uuid.UUID, checkIn, checkOut string) (*AvailabilityDTO, error) {
	stay, err := parseStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	t, err := s.roomTypes.FindByID(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.AvailableRooms(ctx, roomTypeID, stay)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(rooms))
	for i, r := range rooms {
		ids[i] = r.ID()
	}
	nights := stay.Nights()
	return &AvailabilityDTO{
		RoomTypeID:         roomTypeID,
		CheckIn:            stay.CheckIn.Format(booking.DateLayout),
		CheckOut:           stay.CheckOut.Format(booking.DateLayout),
		Available:          len(rooms) > 0,
		AvailableCount:     len(rooms),
		AvailableRoomIDs:   ids,
		Nights:             nights,
		PricePerNightCents: t.PricePerNightCents(),
		TotalPriceCents:    t.PricePerNightCents() * int64(nights),
	}, nil
}

// AvailableRooms returns the rooms of a type that can be booked for stay.
func (s *RoomService) AvailableRooms(ctx context.Context, roomTypeID uuid.UUID, stay booking.DateRange) ([]*room.Room, error) {
	rooms, err := s.rooms.ListByType(ctx, roomTypeID)
	if err != nil {
		return nil, err
	}
	var available []*room.Room
	for _, r := range rooms {
		if !r.Available() {
			continue
		}
		blocking, err := s.bookings.BlockingRanges(ctx, r.ID(), stay)
		if err != nil {
			return nil, err
		}
		if r.IsAvailableForDates(stay, blocking) {
			available = append(available, r)
		}
	}
	return available, nil
}

// ReconcileRooms aligns room status with today's bookings: rooms hosting a
// PAID or CONFIRMED stay become OCCUPIED, and OCCUPIED rooms with neither a
// current nor a future stay are released. It returns the number of rooms changed.
func (s *RoomService) ReconcileRooms(ctx context.Context) (int, error) {
	now := s.now()
	today := booking.Day(now)
	changed := 0

	active, err := s.bookings.ActiveOn(ctx, today)
	if err != nil {
		return 0, err
	}
	occupied := make(map[uuid.UUID]bool, len(active))
	for _, b := range active {
		if occupied[b.RoomID()] {
			continue
		}
		occupied[b.RoomID()] = true
		r, err := s.rooms.FindByID(ctx, b.RoomID())
		if err != nil {
			return changed, err
		}
		if r.Status() == room.StatusOccupied {
			continue
		}
		r.MarkOccupied(now)
		if err := s.rooms.Update(ctx, r); err != nil {
			return changed, err
		}
		changed++
	}

	rooms, err := s.rooms.ListByStatus(ctx, room.StatusOccupied)
	if err != nil {
		return changed, err
	}
	for _, r := range rooms {
		if occupied[r.ID()] {
			continue
		}
		future, err := s.bookings.HasFutureBlocking(ctx, r.ID(), today)
		if err != nil {
			return changed, err
		}
		if future {
			continue
		}
		r.MarkAvailable(now)
		if err := s.rooms.Update(ctx, r); err != nil {
			return changed, err
		}
		changed++
	}

	s.logger.Info("room availability reconciled", zap.Int("changed", changed))
	return changed, nil
}

func parseStay(checkIn, checkOut string) (booking.DateRange, error) {
	in, err := booking.ParseDate(checkIn)
	if err != nil {
		return booking.DateRange{}, err
	}
	out, err := booking.ParseDate(checkOut)
	if err != nil {
		return booking.DateRange{}, err
	}
	return booking.NewDateRange(in, out)
}

// ParseStay parses an optional pair of query dates. Both empty means no stay.
func ParseStay(checkIn, checkOut string) (*booking.DateRange, error) {
	if checkIn == "" && checkOut == "" {
		return nil, nil
	}
	stay, err := parseStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	return &stay, nil
}

func toRoomTypeDTO(t *room.RoomType) RoomTypeDTO {
	amenities := t.Amenities()
	if amenities == nil {
		amenities = []string{}
	}
	return RoomTypeDTO{
		ID:                 t.ID(),
		HotelID:            t.HotelID(),
		Name:               t.Name(),
		Category:           t.Category(),
		PricePerNightCents: t.PricePerNightCents(),
		NumberOfBeds:       t.NumberOfBeds(),
		Capacity:           t.Capacity(),
		TotalRooms:         t.TotalRooms(),
		Description:        t.Description(),
		SizeSqm:            t.SizeSqm(),
		Amenities:          amenities,
	}
}

func toRoomDTO(r *room.Room) RoomDTO {
	return RoomDTO{
		ID:         r.ID(),
		RoomTypeID: r.RoomTypeID(),
		Number:     r.Number(),
		Floor:      r.Floor(),
		Status:     r.Status(),
		Available:  r.Available(),
		Notes:      r.Notes(),
		UpdatedAt:  r.UpdatedAt(),
	}
}
