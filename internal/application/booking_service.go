package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotel-yunuen/service-reservation/internal/adapter"
	"github.com/hotel-yunuen/service-reservation/internal/domain/booking"
	"github.com/hotel-yunuen/service-reservation/internal/domain/coupon"
	"github.com/hotel-yunuen/service-reservation/internal/domain/hotel"
	"github.com/hotel-yunuen/service-reservation/internal/domain/room"
	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
)

// CreateBookingRequest is the DTO for reserving a room.
type CreateBookingRequest struct {
	RoomID          uuid.UUID `json:"room_id" binding:"required"`
	CheckIn         string    `json:"check_in" binding:"required,isodate"`
	CheckOut        string    `json:"check_out" binding:"required,isodate"`
	Adults          int       `json:"adults" binding:"required,gte=1"`
	Children        int       `json:"children" binding:"gte=0"`
	SpecialRequests string    `json:"special_requests" binding:"max=2000"`
	CouponCode      string    `json:"coupon_code" binding:"max=50"`
}

// BookingDTO is the API representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID      `json:"id"`
	InvoiceID       string         `json:"invoice_id"`
	UserID          uuid.UUID      `json:"user_id"`
	HotelID         uuid.UUID      `json:"hotel_id"`
	RoomID          uuid.UUID      `json:"room_id"`
	CouponID        *uuid.UUID     `json:"coupon_id,omitempty"`
	CheckIn         string         `json:"check_in"`
	CheckOut        string         `json:"check_out"`
	Nights          int            `json:"nights"`
	Adults          int            `json:"adults"`
	Children        int            `json:"children"`
	SpecialRequests string         `json:"special_requests,omitempty"`
	SubtotalCents   int64          `json:"subtotal_cents"`
	DiscountCents   int64          `json:"discount_cents"`
	TaxCents        int64          `json:"tax_cents"`
	TotalCents      int64          `json:"total_cents"`
	Status          booking.Status `json:"status"`
	CanBeCancelled  bool           `json:"can_be_cancelled"`
	BookedAt        time.Time      `json:"booked_at"`
	Version         int64          `json:"version"`
}

// BookingListDTO is a page of the guest's bookings plus summary counters.
type BookingListDTO struct {
	Bookings []BookingDTO `json:"bookings"`
	Total    int64        `json:"total"`
	Upcoming int64        `json:"upcoming"`
}

// InvoiceDTO is the printable receipt of a booking.
type InvoiceDTO struct {
	Booking       BookingDTO `json:"booking"`
	HotelName     string     `json:"hotel_name"`
	HotelAddress  string     `json:"hotel_address"`
	CheckInTime   string     `json:"check_in_time"`
	CheckOutTime  string     `json:"check_out_time"`
	RoomNumber    string     `json:"room_number"`
	RoomTypeName  string     `json:"room_type_name"`
	PricePerNight int64      `json:"price_per_night_cents"`
	CouponCode    string     `json:"coupon_code,omitempty"`
	TaxRate       int64      `json:"tax_rate_percent"`
}

// BookingServiceDeps groups the collaborators of BookingService.
type BookingServiceDeps struct {
	Bookings  booking.BookingRepository
	Rooms     room.RoomRepository
	RoomTypes room.RoomTypeRepository
	Hotels    hotel.HotelRepository
	Coupons   coupon.CouponRepository
	Stats     *StatisticsService
	Publisher BookingEventPublisher
	Notifier  adapter.Notifier
	Gateway   adapter.PaymentGateway
}

// BookingService orchestrates the booking use cases.
type BookingService struct {
	bookings       booking.BookingRepository
	rooms          room.RoomRepository
	roomTypes      room.RoomTypeRepository
	hotels         hotel.HotelRepository
	coupons        coupon.CouponRepository
	stats          *StatisticsService
	publisher      BookingEventPublisher
	notifier       adapter.Notifier
	gateway        adapter.PaymentGateway
	taxRatePercent int64
	now            Clock
	logger         *zap.Logger
}

// NewBookingService creates a BookingService.
func NewBookingService(deps BookingServiceDeps, taxRatePercent int64, now Clock, logger *zap.Logger) *BookingService {
	return &BookingService{
		bookings:       deps.Bookings,
		rooms:          deps.Rooms,
		roomTypes:      deps.RoomTypes,
		hotels:         deps.Hotels,
		coupons:        deps.Coupons,
		stats:          deps.Stats,
		publisher:      deps.Publisher,
		notifier:       deps.Notifier,
		gateway:        deps.Gateway,
		taxRatePercent: taxRatePercent,
		now:            now,
		logger:         logger,
	}
}

// CreateBooking validates and stores a PENDING booking. Validation runs in
// this order: dates, past check-in, capacity, coupon, room availability.
func (s *BookingService) CreateBooking(ctx context.Context, userID uuid.UUID, email string, req CreateBookingRequest) (*BookingDTO, error) {
	now := s.now()

	checkIn, err := booking.ParseDate(req.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := booking.ParseDate(req.CheckOut)
	if err != nil {
		return nil, err
	}

	r, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	rt, err := s.roomTypes.FindByID(ctx, r.RoomTypeID())
	if err != nil {
		return nil, err
	}

	b, err := booking.NewBooking(booking.NewBookingParams{
		UserID:             userID,
		UserEmail:          email,
		HotelID:            rt.HotelID(),
		RoomID:             r.ID(),
		CheckIn:            checkIn,
		CheckOut:           checkOut,
		Adults:             req.Adults,
		Children:           req.Children,
		SpecialRequests:    req.SpecialRequests,
		PricePerNightCents: rt.PricePerNightCents(),
		Capacity:           rt.Capacity(),
		Coupon:             s.lookupCoupon(ctx, req.CouponCode),
		TaxRatePercent:     s.taxRatePercent,
	}, now)
	if err != nil {
		return nil, err
	}

	blocking, err := s.bookings.BlockingRanges(ctx, r.ID(), b.Stay())
	if err != nil {
		return nil, err
	}
	if !r.IsAvailableForDates(b.Stay(), blocking) {
		return nil, domain.NewValidationError("room %s is not available for %s", r.Number(), b.Stay())
	}

	if err := s.bookings.CreateExclusive(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", b.ID().String()),
		zap.String("invoice_id", b.InvoiceID()),
		zap.String("room_id", r.ID().String()),
		zap.Int64("total_cents", b.Prices().TotalCents),
	)

	s.afterWrite(ctx, b, booking.EventCreated)
	s.sendConfirmation(ctx, b, r, rt)

	dto := s.toDTO(b)
	return &dto, nil
}

// lookupCoupon resolves a code. Unknown codes are ignored.
func (s *BookingService) lookupCoupon(ctx context.Context, code string) *coupon.Coupon {
	code = coupon.NormalizeCode(code)
	if code == "" {
		return nil
	}
	c, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		if !domain.IsNotFound(err) {
			s.logger.Warn("coupon lookup failed", zap.String("code", code), zap.Error(err))
		}
		return nil
	}
	return c
}

// GetBooking returns one of the user's bookings.
func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*BookingDTO, error) {
	b, err := s.findOwned(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	dto := s.toDTO(b)
	return &dto, nil
}

// ListBookings returns a page of the user's bookings.
func (s *BookingService) ListBookings(ctx context.Context, userID uuid.UUID, status string, page, limit int) (*BookingListDTO, error) {
	st, err := booking.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	page, limit = normalizePage(page, limit)

	list, total, err := s.bookings.List(ctx, booking.ListFilter{UserID: &userID, Status: st, Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}
	upcoming, err := s.bookings.CountUpcoming(ctx, userID, booking.Day(s.now()))
	if err != nil {
		return nil, err
	}

	return &BookingListDTO{Bookings: s.toDTOs(list), Total: total, Upcoming: upcoming}, nil
}

// ListAllBookings returns a page of every booking (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, status string, page, limit int) ([]BookingDTO, int64, error) {
	st, err := booking.ParseStatus(status)
	if err != nil {
		return nil, 0, err
	}
	page, limit = normalizePage(page, limit)

	list, total, err := s.bookings.List(ctx, booking.ListFilter{Status: st, Page: page, Limit: limit})
	if err != nil {
		return nil, 0, err
	}
	return s.toDTOs(list), total, nil
}

// Invoice builds the receipt of one of the user's bookings.
func (s *BookingService) Invoice(ctx context.Context, userID, bookingID uuid.UUID) (*InvoiceDTO, error) {
	b, err := s.findOwned(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	h, err := s.hotels.FindByID(ctx, b.HotelID())
	if err != nil {
		return nil, err
	}
	r, err := s.rooms.FindByID(ctx, b.RoomID())
	if err != nil {
		return nil, err
	}
	rt, err := s.roomTypes.FindByID(ctx, r.RoomTypeID())
	if err != nil {
		return nil, err
	}

	inv := &InvoiceDTO{
		Booking:       s.toDTO(b),
		HotelName:     h.Name(),
		HotelAddress:  h.Address(),
		CheckInTime:   h.CheckInTime(),
		CheckOutTime:  h.CheckOutTime(),
		RoomNumber:    r.Number(),
		RoomTypeName:  rt.Name(),
		PricePerNight: rt.PricePerNightCents(),
		TaxRate:       s.taxRatePercent,
	}
	if id := b.CouponID(); id != nil {
		if c, err := s.coupons.FindByID(ctx, *id); err == nil {
			inv.CouponCode = c.Code()
		}
	}
	return inv, nil
}

// CancelBooking cancels one of the user's bookings before its check-in day.
func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID uuid.UUID) (*BookingDTO, error) {
	b, err := s.findOwned(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, b, booking.EventCancelled, func(now time.Time) (bool, error) {
		return false, b.Cancel(now)
	})
}

// MarkPaid records an offline payment (admin).
func (s *BookingService) MarkPaid(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, b, booking.EventPaid, b.MarkPaid)
}

// ConfirmBooking confirms a pending or paid booking (admin).
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, b, booking.EventConfirmed, b.Confirm)
}

// RefundBooking refunds a paid or confirmed booking (admin).
func (s *BookingService) RefundBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, b, booking.EventRefunded, func(now time.Time) (bool, error) {
		return false, b.Refund(now)
	})
}

// ExpirePending cancels PENDING bookings made more than days ago. It returns
// the invoice ids of the expired bookings.
func (s *BookingService) ExpirePending(ctx context.Context, days int) ([]string, error) {
	if days < 0 {
		return nil, domain.NewValidationError("days cannot be negative")
	}
	cutoff := s.now().AddDate(0, 0, -days)
	pending, err := s.bookings.FindPendingBookedBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	expired := make([]string, 0, len(pending))
	for _, b := range pending {
		if _, err := s.transition(ctx, b, booking.EventCancelled, func(now time.Time) (bool, error) {
			return false, b.Expire(now)
		}); err != nil {
			s.logger.Warn("failed to expire booking", zap.String("invoice_id", b.InvoiceID()), zap.Error(err))
			continue
		}
		expired = append(expired, b.InvoiceID())
	}
	s.logger.Info("pending bookings expired", zap.Int("count", len(expired)), zap.Int("days", days))
	return expired, nil
}

// HandlePaymentSucceeded marks a booking PAID after an external payment.
// Unknown bookings and bookings already paid are skipped.
func (s *BookingService) HandlePaymentSucceeded(ctx context.Context, bookingID uuid.UUID, reference string) error {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if domain.IsNotFound(err) {
			s.logger.Warn("payment for unknown booking, skipping", zap.String("booking_id", bookingID.String()))
			return nil
		}
		return err
	}
	if booking.IsBlocking(b.Status()) {
		s.logger.Debug("booking already paid", zap.String("booking_id", bookingID.String()))
		return nil
	}
	_, err = s.transition(ctx, b, booking.EventPaid, b.MarkPaid)
	if err == nil {
		s.logger.Info("booking paid from payment event",
			zap.String("booking_id", bookingID.String()),
			zap.String("reference", reference),
		)
	}
	return err
}

// HandlePaymentRefunded marks a booking REFUNDED after an external refund.
func (s *BookingService) HandlePaymentRefunded(ctx context.Context, bookingID uuid.UUID) error {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if domain.IsNotFound(err) {
			s.logger.Warn("refund for unknown booking, skipping", zap.String("booking_id", bookingID.String()))
			return nil
		}
		return err
	}
	if b.Status() == booking.StatusRefunded {
		return nil
	}
	_, err = s.transition(ctx, b, booking.EventRefunded, func(now time.Time) (bool, error) {
		return false, b.Refund(now)
	})
	return err
}

// transition applies a status change, persists it with optimistic locking,
// consumes the coupon when the booking first becomes paid, and runs the
// post-write reactions.
func (s *BookingService) transition(ctx context.Context, b *booking.Booking, eventType string, apply func(now time.Time) (bool, error)) (*BookingDTO, error) {
	from := b.Status()
	consume, err := apply(s.now())
	if err != nil {
		return nil, err
	}
	if err := s.persistTransition(ctx, b, consume); err != nil {
		return nil, err
	}

	s.logger.Info("booking status changed",
		zap.String("booking_id", b.ID().String()),
		zap.String("from", string(from)),
		zap.String("to", string(b.Status())),
	)
	s.afterWrite(ctx, b, eventType)

	dto := s.toDTO(b)
	return &dto, nil
}

func (s *BookingService) persistTransition(ctx context.Context, b *booking.Booking, consumeCoupon bool) error {
	if consumeCoupon {
		if err := s.claimCoupon(ctx, b); err != nil {
			return err
		}
	}
	b.IncrementVersion()
	if err := s.bookings.Update(ctx, b); err != nil {
		if consumeCoupon {
			s.releaseCoupon(ctx, b)
		}
		return err
	}
	return nil
}

// claimCoupon re-checks the booking's coupon at payment time and takes one
// redemption from it.
func (s *BookingService) claimCoupon(ctx context.Context, b *booking.Booking) error {
	c, err := s.coupons.FindByID(ctx, *b.CouponID())
	if err != nil {
		return err
	}
	if err := c.Eligibility(b.Prices().SubtotalCents, s.now()); err != nil {
		return err
	}
	return s.coupons.IncrementUses(ctx, c.ID())
}

func (s *BookingService) releaseCoupon(ctx context.Context, b *booking.Booking) {
	if err := s.coupons.ReleaseUse(ctx, *b.CouponID()); err != nil {
		s.logger.Error("failed to release coupon use",
			zap.String("booking_id", b.ID().String()),
			zap.String("coupon_id", b.CouponID().String()),
			zap.Error(err),
		)
	}
}

// afterWrite runs the reactions every booking write triggers: room status,
// hotel statistics and the lifecycle event.
func (s *BookingService) afterWrite(ctx context.Context, b *booking.Booking, eventType string) {
	s.syncRoomStatus(ctx, b)
	if s.stats != nil {
		s.stats.RecomputeAfterWrite(ctx, b.HotelID())
	}
	if s.publisher != nil {
		if err := s.publisher.PublishBookingEvent(ctx, eventType, b); err != nil {
			s.logger.Warn("failed to publish booking event",
				zap.String("type", eventType),
				zap.String("booking_id", b.ID().String()),
				zap.Error(err),
			)
		}
	}
}

// syncRoomStatus occupies the room when the booking is active today and
// releases an occupied room once its cancelled or refunded booking leaves no
// other stay covering today.
func (s *BookingService) syncRoomStatus(ctx context.Context, b *booking.Booking) {
	now := s.now()
	today := booking.Day(now)

	var update func(r *room.Room) bool
	switch {
	case b.IsActiveOn(today):
		update = func(r *room.Room) bool {
			if r.Status() == room.StatusOccupied {
				return false
			}
			r.MarkOccupied(now)
			return true
		}
	case b.Status() == booking.StatusCancelled || b.Status() == booking.StatusRefunded:
		busy, err := s.bookings.HasActiveOn(ctx, b.RoomID(), today)
		if err != nil {
			s.logger.Warn("room occupancy check failed", zap.String("room_id", b.RoomID().String()), zap.Error(err))
			return
		}
		if busy {
			return
		}
		update = func(r *room.Room) bool {
			if r.Status() != room.StatusOccupied {
				return false
			}
			r.MarkAvailable(now)
			return true
		}
	default:
		return
	}

	r, err := s.rooms.FindByID(ctx, b.RoomID())
	if err != nil {
		s.logger.Warn("room lookup failed", zap.String("room_id", b.RoomID().String()), zap.Error(err))
		return
	}
	if !update(r) {
		return
	}
	if err := s.rooms.Update(ctx, r); err != nil {
		s.logger.Warn("room status update failed", zap.String("room_id", r.ID().String()), zap.Error(err))
	}
}

func (s *BookingService) sendConfirmation(ctx context.Context, b *booking.Booking, r *room.Room, rt *room.RoomType) {
	if s.notifier == nil || b.UserEmail() == "" {
		return
	}
	hotelName := ""
	if h, err := s.hotels.FindByID(ctx, b.HotelID()); err == nil {
		hotelName = h.Name()
	}
	err := s.notifier.SendBookingConfirmation(ctx, adapter.BookingConfirmation{
		InvoiceID:    b.InvoiceID(),
		GuestEmail:   b.UserEmail(),
		HotelName:    hotelName,
		RoomNumber:   r.Number(),
		RoomTypeName: rt.Name(),
		CheckIn:      b.CheckIn(),
		CheckOut:     b.CheckOut(),
		Nights:       b.Nights(),
		Guests:       b.TotalGuests(),
		TotalCents:   b.Prices().TotalCents,
	})
	if err != nil {
		s.logger.Warn("failed to send booking confirmation", zap.String("invoice_id", b.InvoiceID()), zap.Error(err))
	}
}

func (s *BookingService) findOwned(ctx context.Context, userID, bookingID uuid.UUID) (*booking.Booking, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(userID) {
		return nil, domain.NewNotFoundError("Booking", bookingID.String())
	}
	return b, nil
}

func (s *BookingService) toDTOs(list []*booking.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(list))
	for i, b := range list {
		dtos[i] = s.toDTO(b)
	}
	return dtos
}

func (s *BookingService) toDTO(b *booking.Booking) BookingDTO {
	p := b.Prices()
	return BookingDTO{
		ID:              b.ID(),
		InvoiceID:       b.InvoiceID(),
		UserID:          b.UserID(),
		HotelID:         b.HotelID(),
		RoomID:          b.RoomID(),
		CouponID:        b.CouponID(),
		CheckIn:         b.CheckIn().Format(booking.DateLayout),
		CheckOut:        b.CheckOut().Format(booking.DateLayout),
		Nights:          b.Nights(),
		Adults:          b.Adults(),
		Children:        b.Children(),
		SpecialRequests: b.SpecialRequests(),
		SubtotalCents:   p.SubtotalCents,
		DiscountCents:   p.DiscountCents,
		TaxCents:        p.TaxCents,
		TotalCents:      p.TotalCents,
		Status:          b.Status(),
		CanBeCancelled:  b.CanBeCancelled(s.now()),
		BookedAt:        b.BookedAt(),
		Version:         b.Version(),
	}
}
