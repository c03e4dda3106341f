package adapter

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentGateway is the anti-corruption layer in front of the card processor.
type PaymentGateway interface {
	// Authorize places a hold for amountCents and returns the authorization id.
	Authorize(ctx context.Context, amountCents int64, currency, customerEmail, reference string) (authorizationID string, err error)

	// Capture settles a previously authorized hold.
	Capture(ctx context.Context, authorizationID string) error

	// Void releases an uncaptured hold.
	Void(ctx context.Context, authorizationID string) error
}

// MockPaymentGateway approves every request and logs what a real processor would receive.
type MockPaymentGateway struct {
	logger *zap.Logger
}

// NewMockPaymentGateway creates a gateway for development and tests.
func NewMockPaymentGateway(logger *zap.Logger) *MockPaymentGateway {
	return &MockPaymentGateway{logger: logger}
}

// Authorize returns a fake authorization id.
func (m *MockPaymentGateway) Authorize(ctx context.Context, amountCents int64, currency, customerEmail, reference string) (string, error) {
	if amountCents < 0 {
		return "", fmt.Errorf("authorize %s: negative amount %d", reference, amountCents)
	}
	authID := fmt.Sprintf("auth_mock_%s", uuid.New().String()[:8])

	m.logger.Info("[MOCK GATEWAY] payment authorized",
		zap.String("authorization_id", authID),
		zap.String("reference", reference),
		zap.Int64("amount_cents", amountCents),
		zap.String("currency", currency),
		zap.String("customer_email", customerEmail),
	)
	return authID, nil
}

// Capture logs the capture.
func (m *MockPaymentGateway) Capture(ctx context.Context, authorizationID string) error {
	m.logger.Info("[MOCK GATEWAY] payment captured", zap.String("authorization_id", authorizationID))
	return nil
}

// Void logs the release.
func (m *MockPaymentGateway) Void(ctx context.Context, authorizationID string) error {
	m.logger.Info("[MOCK GATEWAY] authorization voided", zap.String("authorization_id", authorizationID))
	return nil
}
