package events

import (
	"context"
	"strings"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/hotel-yunuen/service-reservation/internal/platform/kafka"
)

// Payment topic and event types consumed from the payment provider bridge.
const (
	TopicPaymentEvents = "payment.events"

	PaymentSucceeded = "payment.succeeded"
	PaymentRefunded  = "payment.refunded"
)

// PaymentSucceededEvent reports a payment captured outside this service.
type PaymentSucceededEvent struct {
	BookingID   uuid.UUID `json:"booking_id"`
	PaymentID   string    `json:"payment_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
}

// PaymentRefundedEvent reports a refund issued outside this service.
type PaymentRefundedEvent struct {
	BookingID uuid.UUID `json:"booking_id"`
	PaymentID string    `json:"payment_id"`
	Reason    string    `json:"reason"`
}

// PaymentHandler applies payment outcomes to bookings.
type PaymentHandler interface {
	HandlePaymentSucceeded(ctx context.Context, bookingID uuid.UUID, reference string) error
	HandlePaymentRefunded(ctx context.Context, bookingID uuid.UUID) error
}

// PaymentEventConsumer listens to payment events and updates bookings.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	handler  PaymentHandler
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new consumer for payment events.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	handler PaymentHandler,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		handler:  handler,
		logger:   logger,
	}
}

// Start begins consuming payment events. It blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// handleMessage routes incoming Kafka messages to the appropriate handler.
func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return err
	}

	c.logger.Info("received payment event",
		zap.String("type", cloudEvent.Type),
		zap.String("id", cloudEvent.ID),
	)

	switch {
	case strings.EqualFold(cloudEvent.Type, PaymentSucceeded):
		var event PaymentSucceededEvent
		if err := cloudEvent.ParseData(&event); err != nil {
			c.logger.Error("failed to parse PaymentSucceededEvent data", zap.Error(err))
			return err
		}
		return c.handler.HandlePaymentSucceeded(ctx, event.BookingID, event.PaymentID)

	case strings.EqualFold(cloudEvent.Type, PaymentRefunded):
		var event PaymentRefundedEvent
		if err := cloudEvent.ParseData(&event); err != nil {
			c.logger.Error("failed to parse PaymentRefundedEvent data", zap.Error(err))
			return err
		}
		return c.handler.HandlePaymentRefunded(ctx, event.BookingID)

	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}
