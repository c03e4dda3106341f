package adapter

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$3,944.00", FormatCents(394_400))
	assert.Equal(t, "$0.05", FormatCents(5))
	assert.Equal(t, "$1,234,567.89", FormatCents(123_456_789))
	assert.Equal(t, "-$12.30", FormatCents(-1_230))
}

func TestConfirmationMsg(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{From: "noreply@hotelyunuen.com"}, zap.NewNop())

	msg, err := n.confirmationMsg(BookingConfirmation{
		InvoiceID:  "INV-ABCDEF123456",
		GuestEmail: "guest@example.com",
		HotelName:  "Hotel Yunuen",
		CheckIn:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
		Nights:     3,
		TotalCents: 394_400,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Subject: Booking confirmation - INV-ABCDEF123456")
	assert.Contains(t, buf.String(), "guest@example.com")
}

func TestConfirmationMsg_BadAddress(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{From: "noreply@hotelyunuen.com"}, zap.NewNop())
	_, err := n.confirmationMsg(BookingConfirmation{GuestEmail: "not an address"})
	assert.Error(t, err)
}

func TestContactMsg(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{From: "noreply@hotelyunuen.com", OperatorEmail: "frontdesk@hotelyunuen.com"}, zap.NewNop())

	msg, err := n.contactMsg(ContactMessage{Name: "Ana", Email: "ana@example.com", Subject: "Late arrival", Message: "Arriving at 23:00"})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "frontdesk@hotelyunuen.com")
	assert.Contains(t, buf.String(), "Reply-To:")
	assert.Contains(t, buf.String(), "ana@example.com")
	assert.Contains(t, buf.String(), "Subject: Contact: Late arrival")
}

func TestMockPaymentGateway(t *testing.T) {
	g := NewMockPaymentGateway(zap.NewNop())
	ctx := context.Background()

	id, err := g.Authorize(ctx, 394_400, "MXN", "guest@example.com", "INV-1")
	require.NoError(t, err)
	assert.Contains(t, id, "auth_mock_")
	assert.NoError(t, g.Capture(ctx, id))
	assert.NoError(t, g.Void(ctx, id))

	_, err = g.Authorize(ctx, -1, "MXN", "guest@example.com", "INV-2")
	assert.Error(t, err)
}
