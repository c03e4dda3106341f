package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hotel-yunuen/service-reservation/internal/domain/booking"
	"github.com/hotel-yunuen/service-reservation/internal/platform/kafka"
)

type recordedEvent struct {
	topic string
	key   string
	ce    kafka.CloudEvent
}

type fakeWriter struct {
	events []recordedEvent
	err    error
}

func (w *fakeWriter) PublishEvent(_ context.Context, topic, key string, ce kafka.CloudEvent) error {
	if w.err != nil {
		return w.err
	}
	w.events = append(w.events, recordedEvent{topic: topic, key: key, ce: ce})
	return nil
}

func newBooking(t *testing.T) *booking.Booking {
	t.Helper()
	now := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	b, err := booking.NewBooking(booking.NewBookingParams{
		UserID:             uuid.New(),
		UserEmail:          "guest@example.com",
		HotelID:            uuid.New(),
		RoomID:             uuid.New(),
		CheckIn:            time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:           time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
		Adults:             2,
		PricePerNightCents: 120_000,
		Capacity:           2,
		TaxRatePercent:     16,
	}, now)
	require.NoError(t, err)
	return b
}

func TestBookingEventPublisher(t *testing.T) {
	w := &fakeWriter{}
	p := NewBookingEventPublisher(w)
	b := newBooking(t)

	require.NoError(t, p.PublishBookingEvent(context.Background(), booking.EventCreated, b))

	require.Len(t, w.events, 1)
	got := w.events[0]
	assert.Equal(t, booking.TopicBookingEvents, got.topic)
	assert.Equal(t, b.ID().String(), got.key)
	assert.Equal(t, booking.EventCreated, got.ce.Type)
	assert.Equal(t, Source, got.ce.Source)

	var data BookingEvent
	require.NoError(t, got.ce.ParseData(&data))
	assert.Equal(t, b.ID(), data.BookingID)
	assert.Equal(t, "2024-06-01", data.CheckIn)
	assert.Equal(t, "2024-06-04", data.CheckOut)
	assert.Equal(t, "PENDING", data.Status)
	assert.Equal(t, int64(360_000), data.SubtotalCents)
	assert.Equal(t, int64(417_600), data.TotalCents)
}

func TestBookingEventPublisher_PropagatesWriteError(t *testing.T) {
	p := NewBookingEventPublisher(&fakeWriter{err: errors.New("broker down")})
	err := p.PublishBookingEvent(context.Background(), booking.EventPaid, newBooking(t))
	assert.EqualError(t, err, "broker down")
}

type paymentCall struct {
	kind      string
	bookingID uuid.UUID
	reference string
}

type fakePayments struct {
	calls []paymentCall
}

func (f *fakePayments) HandlePaymentSucceeded(_ context.Context, bookingID uuid.UUID, reference string) error {
	f.calls = append(f.calls, paymentCall{kind: "succeeded", bookingID: bookingID, reference: reference})
	return nil
}

func (f *fakePayments) HandlePaymentRefunded(_ context.Context, bookingID uuid.UUID) error {
	f.calls = append(f.calls, paymentCall{kind: "refunded", bookingID: bookingID})
	return nil
}

func message(t *testing.T, eventType string, data interface{}) kafkago.Message {
	t.Helper()
	ce, err := kafka.NewCloudEvent("payment-bridge", eventType, data)
	require.NoError(t, err)
	raw, err := json.Marshal(ce)
	require.NoError(t, err)
	return kafkago.Message{Topic: TopicPaymentEvents, Value: raw}
}

func TestPaymentEventConsumer_Routes(t *testing.T) {
	payments := &fakePayments{}
	c := &PaymentEventConsumer{handler: payments, logger: zap.NewNop()}
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, c.handleMessage(ctx, message(t, PaymentSucceeded, PaymentSucceededEvent{BookingID: id, PaymentID: "pi_123", AmountCents: 417_600, Currency: "MXN"})))
	require.NoError(t, c.handleMessage(ctx, message(t, "PAYMENT.REFUNDED", PaymentRefundedEvent{BookingID: id, PaymentID: "pi_123"})))
	require.NoError(t, c.handleMessage(ctx, message(t, "payment.disputed", map[string]string{"booking_id": id.String()})))

	assert.Equal(t, []paymentCall{
		{kind: "succeeded", bookingID: id, reference: "pi_123"},
		{kind: "refunded", bookingID: id},
	}, payments.calls)
}

func TestPaymentEventConsumer_RejectsMalformed(t *testing.T) {
	payments := &fakePayments{}
	c := &PaymentEventConsumer{handler: payments, logger: zap.NewNop()}

	err := c.handleMessage(context.Background(), kafkago.Message{Value: []byte("{")})
	assert.Error(t, err)

	err = c.handleMessage(context.Background(), message(t, PaymentSucceeded, map[string]int{"booking_id": 7}))
	assert.Error(t, err)
	assert.Empty(t, payments.calls)
}
