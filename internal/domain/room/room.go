package room

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hotel-yunuen/service-reservation/internal/domain/booking"
	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
)

// Status is the housekeeping state of a room.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusOccupied    Status = "OCCUPIED"
	StatusMaintenance Status = "MAINTENANCE"
	StatusCleaning    Status = "CLEANING"
)

// ParseStatus validates a room status string.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusAvailable, StatusOccupied, StatusMaintenance, StatusCleaning:
		return st, nil
	}
	return "", domain.NewValidationError("invalid room status: %s", s)
}

// Room is a single bookable unit of a RoomType.
type Room struct {
	id         uuid.UUID
	roomTypeID uuid.UUID
	number     string
	floor      int
	status     Status
	available  bool
	notes      string
	createdAt  time.Time
	updatedAt  time.Time
}

// NewRoom creates an available room.
func NewRoom(roomTypeID uuid.UUID, number string, floor int, notes string, now time.Time) (*Room, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, domain.NewValidationError("room number is required")
	}
	if len(number) > 10 {
		return nil, domain.NewValidationError("room number must be at most 10 characters")
	}
	if floor < 0 {
		return nil, domain.NewValidationError("floor cannot be negative")
	}
	now = now.UTC()
	return &Room{
		id:         uuid.New(),
		roomTypeID: roomTypeID,
		number:     number,
		floor:      floor,
		status:     StatusAvailable,
		available:  true,
		notes:      notes,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstituteRoom rebuilds a Room from persisted data.
func ReconstituteRoom(id, roomTypeID uuid.UUID, number string, floor int, status Status, available bool, notes string, createdAt, updatedAt time.Time) *Room {
	return &Room{
		id: id, roomTypeID: roomTypeID, number: number, floor: floor,
		status: status, available: available, notes: notes,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

func (r *Room) ID() uuid.UUID         { return r.id }
func (r *Room) RoomTypeID() uuid.UUID { return r.roomTypeID }
func (r *Room) Number() string        { return r.number }
func (r *Room) Floor() int            { return r.floor }
func (r *Room) Status() Status        { return r.status }
func (r *Room) Available() bool       { return r.available }
func (r *Room) Notes() string         { return r.notes }
func (r *Room) CreatedAt() time.Time  { return r.createdAt }
func (r *Room) UpdatedAt() time.Time  { return r.updatedAt }

// IsAvailableForDates reports whether the room can be booked for stay given
// the stays of its PAID or CONFIRMED bookings.
func (r *Room) IsAvailableForDates(stay booking.DateRange, blocking []booking.DateRange) bool {
	if !r.available {
		return false
	}
	for _, b := range blocking {
		if b.Overlaps(stay) {
			return false
		}
	}
	return true
}

// MarkOccupied flags the room as in use by a guest.
func (r *Room) MarkOccupied(now time.Time) {
	r.status = StatusOccupied
	r.available = false
	r.updatedAt = now.UTC()
}

// MarkAvailable releases the room for new bookings.
func (r *Room) MarkAvailable(now time.Time) {
	r.status = StatusAvailable
	r.available = true
	r.updatedAt = now.UTC()
}

// SetStatus applies a housekeeping status. Only AVAILABLE rooms accept bookings.
func (r *Room) SetStatus(s Status, now time.Time) {
	if s == StatusAvailable {
		r.MarkAvailable(now)
		return
	}
	r.status = s
	r.available = false
	r.updatedAt = now.UTC()
}
