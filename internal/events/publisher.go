package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hotel-yunuen/service-reservation/internal/domain/booking"
	"github.com/hotel-yunuen/service-reservation/internal/platform/kafka"
)

// Source is the CloudEvent source of everything this service publishes.
const Source = "service-reservation"

// BookingEvent is the data of every booking.* CloudEvent.
type BookingEvent struct {
	BookingID     uuid.UUID  `json:"booking_id"`
	InvoiceID     string     `json:"invoice_id"`
	UserID        uuid.UUID  `json:"user_id"`
	HotelID       uuid.UUID  `json:"hotel_id"`
	RoomID        uuid.UUID  `json:"room_id"`
	CouponID      *uuid.UUID `json:"coupon_id,omitempty"`
	CheckIn       string     `json:"check_in"`
	CheckOut      string     `json:"check_out"`
	Status        string     `json:"status"`
	SubtotalCents int64      `json:"subtotal_cents"`
	DiscountCents int64      `json:"discount_cents"`
	TaxCents      int64      `json:"tax_cents"`
	TotalCents    int64      `json:"total_cents"`
	Version       int64      `json:"version"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// EventWriter is the part of kafka.Producer the publisher needs.
type EventWriter interface {
	PublishEvent(ctx context.Context, topic, key string, ce kafka.CloudEvent) error
}

// BookingEventPublisher publishes booking lifecycle events keyed by booking id.
type BookingEventPublisher struct {
	writer EventWriter
	topic  string
}

// NewBookingEventPublisher creates a publisher writing to booking.TopicBookingEvents.
func NewBookingEventPublisher(writer EventWriter) *BookingEventPublisher {
	return &BookingEventPublisher{writer: writer, topic: booking.TopicBookingEvents}
}

// PublishBookingEvent wraps b in a CloudEvent of eventType and publishes it.
func (p *BookingEventPublisher) PublishBookingEvent(ctx context.Context, eventType string, b *booking.Booking) error {
	ce, err := kafka.NewCloudEvent(Source, eventType, NewBookingEvent(b))
	if err != nil {
		return err
	}
	return p.writer.PublishEvent(ctx, p.topic, b.ID().String(), ce)
}

// NewBookingEvent snapshots b.
func NewBookingEvent(b *booking.Booking) BookingEvent {
	prices := b.Prices()
	return BookingEvent{
		BookingID:     b.ID(),
		InvoiceID:     b.InvoiceID(),
		UserID:        b.UserID(),
		HotelID:       b.HotelID(),
		RoomID:        b.RoomID(),
		CouponID:      b.CouponID(),
		CheckIn:       b.CheckIn().Format(booking.DateLayout),
		CheckOut:      b.CheckOut().Format(booking.DateLayout),
		Status:        string(b.Status()),
		SubtotalCents: prices.SubtotalCents,
		DiscountCents: prices.DiscountCents,
		TaxCents:      prices.TaxCents,
		TotalCents:    prices.TotalCents,
		Version:       b.Version(),
		OccurredAt:    b.UpdatedAt(),
	}
}
