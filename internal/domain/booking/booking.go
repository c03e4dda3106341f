package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hotel-yunuen/service-reservation/internal/domain/coupon"
	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
)

// Status represents the payment state of a booking.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusRefunded  Status = "REFUNDED"
)

// IsBlocking reports whether a booking in status s holds its room.
func IsBlocking(s Status) bool {
	return s == StatusPaid || s == StatusConfirmed
}

// ParseStatus validates a status string. The empty string is accepted as
// "no filter".
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case "", StatusPending, StatusPaid, StatusConfirmed, StatusCancelled, StatusRefunded:
		return st, nil
	}
	return "", domain.NewValidationError("invalid booking status: %s", s)
}

// Booking is the aggregate root for room reservations.
type Booking struct {
	id              uuid.UUID
	invoiceID       string
	userID          uuid.UUID
	userEmail       string
	hotelID         uuid.UUID
	roomID          uuid.UUID
	couponID        *uuid.UUID
	stay            DateRange
	bookedAt        time.Time
	adults          int
	children        int
	specialRequests string
	prices          Prices
	status          Status
	version         int64
	createdAt       time.Time
	updatedAt       time.Time
}

// NewBookingParams holds the inputs for NewBooking.
type NewBookingParams struct {
	UserID             uuid.UUID
	UserEmail          string
	HotelID            uuid.UUID
	RoomID             uuid.UUID
	CheckIn            time.Time
	CheckOut           time.Time
	Adults             int
	Children           int
	SpecialRequests    string
	PricePerNightCents int64
	Capacity           int
	// Coupon is optional. A coupon that is not valid at creation time is
	// silently ignored.
	Coupon         *coupon.Coupon
	TaxRatePercent int64
}

// NewBooking validates the request and creates a PENDING booking with its
// prices computed. Room availability is checked by the caller.
func NewBooking(p NewBookingParams, now time.Time) (*Booking, error) {
	stay, err := NewDateRange(p.CheckIn, p.CheckOut)
	if err != nil {
		return nil, err
	}
	if stay.CheckIn.Before(Day(now)) {
		return nil, domain.NewValidationError("check-in date cannot be in the past")
	}
	if p.Adults < 1 {
		return nil, domain.NewValidationError("at least one adult is required")
	}
	if p.Children < 0 {
		return nil, domain.NewValidationError("children cannot be negative")
	}
	if guests := p.Adults + p.Children; guests > p.Capacity {
		return nil, domain.NewValidationError("room capacity is %d guests, requested %d", p.Capacity, guests)
	}
	if p.PricePerNightCents < 0 {
		return nil, domain.NewValidationError("price per night cannot be negative")
	}

	var applied *coupon.Coupon
	var couponID *uuid.UUID
	if p.Coupon != nil && p.Coupon.IsValid(now) {
		applied = p.Coupon
		id := p.Coupon.ID()
		couponID = &id
	}

	now = now.UTC()
	return &Booking{
		id:              uuid.New(),
		invoiceID:       NewInvoiceID(),
		userID:          p.UserID,
		userEmail:       p.UserEmail,
		hotelID:         p.HotelID,
		roomID:          p.RoomID,
		couponID:        couponID,
		stay:            stay,
		bookedAt:        now,
		adults:          p.Adults,
		children:        p.Children,
		specialRequests: strings.TrimSpace(p.SpecialRequests),
		prices:          CalculatePrices(p.PricePerNightCents, stay.Nights(), applied, p.TaxRatePercent, now),
		status:          StatusPending,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// NewInvoiceID returns an identifier of the form INV-XXXXXXXXXXXX.
func NewInvoiceID() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "INV-" + strings.ToUpper(hex[:12])
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID           { return b.id }
func (b *Booking) InvoiceID() string       { return b.invoiceID }
func (b *Booking) UserID() uuid.UUID       { return b.userID }
func (b *Booking) UserEmail() string       { return b.userEmail }
func (b *Booking) HotelID() uuid.UUID      { return b.hotelID }
func (b *Booking) RoomID() uuid.UUID       { return b.roomID }
func (b *Booking) CouponID() *uuid.UUID    { return b.couponID }
func (b *Booking) Stay() DateRange         { return b.stay }
func (b *Booking) CheckIn() time.Time      { return b.stay.CheckIn }
func (b *Booking) CheckOut() time.Time     { return b.stay.CheckOut }
func (b *Booking) Nights() int             { return b.stay.Nights() }
func (b *Booking) BookedAt() time.Time     { return b.bookedAt }
func (b *Booking) Adults() int             { return b.adults }
func (b *Booking) Children() int           { return b.children }
func (b *Booking) TotalGuests() int        { return b.adults + b.children }
func (b *Booking) SpecialRequests() string { return b.specialRequests }
func (b *Booking) Prices() Prices          { return b.prices }
func (b *Booking) Status() Status          { return b.status }
func (b *Booking) Version() int64          { return b.version }
func (b *Booking) CreatedAt() time.Time    { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time    { return b.updatedAt }

// --- Behavior / State Transitions ---

// MarkPaid moves a PENDING booking to PAID. consumeCoupon is true when the
// attached coupon's usage counter must be incremented.
func (b *Booking) MarkPaid(now time.Time) (consumeCoupon bool, err error) {
	if b.status != StatusPending {
		return false, domain.NewInvalidStateError(string(b.status), string(StatusPaid))
	}
	return b.enterPaid(StatusPaid, now), nil
}

// Confirm moves a PENDING or PAID booking to CONFIRMED. The coupon is only
// consumed when coming from PENDING.
func (b *Booking) Confirm(now time.Time) (consumeCoupon bool, err error) {
	if b.status != StatusPending && b.status != StatusPaid {
		return false, domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	return b.enterPaid(StatusConfirmed, now), nil
}

func (b *Booking) enterPaid(to Status, now time.Time) bool {
	consume := !IsBlocking(b.status) && b.couponID != nil
	b.status = to
	b.updatedAt = now.UTC()
	return consume
}

// CanBeCancelled reports whether the guest may still cancel on day today.
func (b *Booking) CanBeCancelled(today time.Time) bool {
	if b.status == StatusCancelled || b.status == StatusRefunded {
		return false
	}
	return b.stay.CheckIn.After(Day(today))
}

// Cancel cancels the booking. It fails once the check-in day has been reached.
func (b *Booking) Cancel(now time.Time) error {
	if b.status == StatusCancelled || b.status == StatusRefunded {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	if !b.stay.CheckIn.After(Day(now)) {
		return domain.NewStateError("booking cannot be cancelled on or after the check-in date")
	}
	b.status = StatusCancelled
	b.updatedAt = now.UTC()
	return nil
}

// Expire cancels a PENDING booking whose payment never arrived.
func (b *Booking) Expire(now time.Time) error {
	if b.status != StatusPending {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	b.status = StatusCancelled
	b.updatedAt = now.UTC()
	return nil
}

// Refund moves a PAID or CONFIRMED booking to REFUNDED.
func (b *Booking) Refund(now time.Time) error {
	if !IsBlocking(b.status) {
		return domain.NewInvalidStateError(string(b.status), string(StatusRefunded))
	}
	b.status = StatusRefunded
	b.updatedAt = now.UTC()
	return nil
}

// IsActiveOn reports whether the booking occupies its room on day.
func (b *Booking) IsActiveOn(day time.Time) bool {
	return IsBlocking(b.status) && b.stay.Covers(day)
}

// IsOwnedBy reports whether userID made the booking.
func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
}

// --- Reconstitution ---

// Reconstitute rebuilds a Booking from persisted data.
func Reconstitute(
	id uuid.UUID,
	invoiceID string,
	userID uuid.UUID,
	userEmail string,
	hotelID, roomID uuid.UUID,
	couponID *uuid.UUID,
	stay DateRange,
	bookedAt time.Time,
	adults, children int,
	specialRequests string,
	prices Prices,
	status Status,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		invoiceID:       invoiceID,
		userID:          userID,
		userEmail:       userEmail,
		hotelID:         hotelID,
		roomID:          roomID,
		couponID:        couponID,
		stay:            stay,
		bookedAt:        bookedAt,
		adults:          adults,
		children:        children,
		specialRequests: specialRequests,
		prices:          prices,
		status:          status,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}
