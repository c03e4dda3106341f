package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotel-yunuen/service-reservation/internal/domain/booking"
	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
	"github.com/hotel-yunuen/service-reservation/internal/saga"
)

// PaymentCurrency is the currency every booking is charged in.
const PaymentCurrency = "MXN"

// PaymentResultDTO is returned after a successful payment.
type PaymentResultDTO struct {
	Booking         BookingDTO `json:"booking"`
	AuthorizationID string     `json:"authorization_id"`
	AmountCents     int64      `json:"amount_cents"`
	Currency        string     `json:"currency"`
}

// PayBooking charges the guest for a PENDING booking: authorize with the
// gateway, mark the booking PAID, then capture. A failure voids the
// authorization, and a failed capture also reverts the booking to REFUNDED.
func (s *BookingService) PayBooking(ctx context.Context, userID, bookingID uuid.UUID) (*PaymentResultDTO, error) {
	if s.gateway == nil {
		return nil, errors.New("payment gateway not configured")
	}
	b, err := s.findOwned(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status() != booking.StatusPending {
		return nil, domain.NewInvalidStateError(string(b.Status()), string(booking.StatusPaid))
	}

	amount := b.Prices().TotalCents
	var authID string
	var consumed bool

	pay := saga.New("pay_booking", s.logger.With(zap.String("booking_id", b.ID().String())))

	pay.AddStep(saga.Step{
		Name: "authorize_payment",
		Execute: func(ctx context.Context) error {
			var err error
			authID, err = s.gateway.Authorize(ctx, amount, PaymentCurrency, b.UserEmail(), b.InvoiceID())
			return err
		},
		Compensate: func(ctx context.Context) error {
			return s.gateway.Void(ctx, authID)
		},
	})

	pay.AddStep(saga.Step{
		Name: "mark_booking_paid",
		Execute: func(ctx context.Context) error {
			var err error
			consumed, err = b.MarkPaid(s.now())
			if err != nil {
				return err
			}
			return s.persistTransition(ctx, b, consumed)
		},
		Compensate: func(ctx context.Context) error {
			if err := b.Refund(s.now()); err != nil {
				return err
			}
			b.IncrementVersion()
			if err := s.bookings.Update(ctx, b); err != nil {
				return err
			}
			if consumed {
				s.releaseCoupon(ctx, b)
			}
			return nil
		},
	})

	pay.AddStep(saga.Step{
		Name: "capture_payment",
		Execute: func(ctx context.Context) error {
			return s.gateway.Capture(ctx, authID)
		},
	})

	if err := pay.Execute(ctx); err != nil {
		if b.Status() == booking.StatusRefunded {
			s.afterWrite(ctx, b, booking.EventRefunded)
		}
		return nil, err
	}

	s.logger.Info("booking paid",
		zap.String("booking_id", b.ID().String()),
		zap.String("authorization_id", authID),
		zap.Int64("amount_cents", amount),
	)
	s.afterWrite(ctx, b, booking.EventPaid)

	return &PaymentResultDTO{
		Booking:         s.toDTO(b),
		AuthorizationID: authID,
		AmountCents:     amount,
		Currency:        PaymentCurrency,
	}, nil
}
