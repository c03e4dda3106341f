package hotel

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
)

// Default front-desk times.
const (
	DefaultCheckInTime  = "15:00"
	DefaultCheckOutTime = "12:00"
)

const clockLayout = "15:04"

// Hotel is a property owning room types, reviews and statistics.
type Hotel struct {
	id           uuid.UUID
	name         string
	slug         string
	address      string
	city         string
	state        string
	postalCode   string
	phone        string
	email        string
	description  string
	checkInTime  string
	checkOutTime string
	active       bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NewHotelParams holds the inputs for NewHotel.
type NewHotelParams struct {
	Name         string
	Address      string
	City         string
	State        string
	PostalCode   string
	Phone        string
	Email        string
	Description  string
	CheckInTime  string
	CheckOutTime string
}

// NewHotel validates p and creates an active hotel whose slug is derived from its name.
func NewHotel(p NewHotelParams, now time.Time) (*Hotel, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, domain.NewValidationError("hotel name is required")
	}
	s := slug.Make(name)
	if s == "" {
		return nil, domain.NewValidationError("hotel name %q does not produce a usable slug", name)
	}

	checkIn, err := clockOrDefault(p.CheckInTime, DefaultCheckInTime)
	if err != nil {
		return nil, err
	}
	checkOut, err := clockOrDefault(p.CheckOutTime, DefaultCheckOutTime)
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	return &Hotel{
		id:           uuid.New(),
		name:         name,
		slug:         s,
		address:      strings.TrimSpace(p.Address),
		city:         strings.TrimSpace(p.City),
		state:        strings.TrimSpace(p.State),
		postalCode:   strings.TrimSpace(p.PostalCode),
		phone:        strings.TrimSpace(p.Phone),
		email:        strings.TrimSpace(p.Email),
		description:  strings.TrimSpace(p.Description),
		checkInTime:  checkIn,
		checkOutTime: checkOut,
		active:       true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func clockOrDefault(v, def string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	t, err := time.Parse(clockLayout, v)
	if err != nil {
		return "", domain.NewValidationError("invalid time %q, expected HH:MM", v)
	}
	return t.Format(clockLayout), nil
}

// Reconstitute rebuilds a Hotel from persisted data.
func Reconstitute(
	id uuid.UUID,
	name, slug, address, city, state, postalCode, phone, email, description string,
	checkInTime, checkOutTime string,
	active bool,
	createdAt, updatedAt time.Time,
) *Hotel {
	return &Hotel{
		id: id, name: name, slug: slug, address: address, city: city, state: state,
		postalCode: postalCode, phone: phone, email: email, description: description,
		checkInTime: checkInTime, checkOutTime: checkOutTime, active: active,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

// WithSuffix re-slugs the hotel as "<slug>-<suffix>" after a uniqueness clash.
func (h *Hotel) WithSuffix(suffix string) {
	h.slug = slug.Make(h.name + " " + suffix)
}

func (h *Hotel) ID() uuid.UUID        { return h.id }
func (h *Hotel) Name() string         { return h.name }
func (h *Hotel) Slug() string         { return h.slug }
func (h *Hotel) Address() string      { return h.address }
func (h *Hotel) City() string         { return h.city }
func (h *Hotel) State() string        { return h.state }
func (h *Hotel) PostalCode() string   { return h.postalCode }
func (h *Hotel) Phone() string        { return h.phone }
func (h *Hotel) Email() string        { return h.email }
func (h *Hotel) Description() string  { return h.description }
func (h *Hotel) CheckInTime() string  { return h.checkInTime }
func (h *Hotel) CheckOutTime() string { return h.checkOutTime }
func (h *Hotel) Active() bool         { return h.active }
func (h *Hotel) CreatedAt() time.Time { return h.createdAt }
func (h *Hotel) UpdatedAt() time.Time { return h.updatedAt }

// HotelRepository defines persistence for hotels.
type HotelRepository interface {
	Save(ctx context.Context, h *Hotel) error
	FindByID(ctx context.Context, id uuid.UUID) (*Hotel, error)
	FindBySlug(ctx context.Context, slug string) (*Hotel, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListActive(ctx context.Context) ([]*Hotel, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}
