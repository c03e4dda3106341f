package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// BookingConfirmation is the data sent to a guest after booking.
type BookingConfirmation struct {
	InvoiceID    string
	GuestEmail   string
	HotelName    string
	RoomNumber   string
	RoomTypeName string
	CheckIn      time.Time
	CheckOut     time.Time
	Nights       int
	Guests       int
	TotalCents   int64
}

// ContactMessage is a visitor's contact-form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Notifier sends transactional e-mail.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, m BookingConfirmation) error
	SendContactMessage(ctx context.Context, m ContactMessage) error
}

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host          string
	Port          int
	Username      string
	Password      string
	From          string
	OperatorEmail string
}

// SMTPNotifier delivers mail through an SMTP relay with go-mail.
type SMTPNotifier struct {
	cfg    SMTPConfig
	logger *zap.Logger
}

// NewSMTPNotifier creates a notifier for cfg.
func NewSMTPNotifier(cfg SMTPConfig, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, logger: logger}
}

// SendBookingConfirmation mails the booking summary to the guest.
func (n *SMTPNotifier) SendBookingConfirmation(ctx context.Context, m BookingConfirmation) error {
	msg, err := n.confirmationMsg(m)
	if err != nil {
		return err
	}
	if err := n.send(ctx, msg); err != nil {
		return fmt.Errorf("send confirmation %s: %w", m.InvoiceID, err)
	}
	n.logger.Info("booking confirmation sent", zap.String("invoice_id", m.InvoiceID))
	return nil
}

// SendContactMessage forwards a contact-form submission to the operator.
func (n *SMTPNotifier) SendContactMessage(ctx context.Context, m ContactMessage) error {
	msg, err := n.contactMsg(m)
	if err != nil {
		return err
	}
	if err := n.send(ctx, msg); err != nil {
		return fmt.Errorf("forward contact message: %w", err)
	}
	return nil
}

func (n *SMTPNotifier) confirmationMsg(m BookingConfirmation) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return nil, fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(m.GuestEmail); err != nil {
		return nil, fmt.Errorf("set guest address: %w", err)
	}
	msg.Subject("Booking confirmation - " + m.InvoiceID)

	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for booking with %s.\n\n", m.HotelName)
	fmt.Fprintf(&b, "Invoice: %s\n", m.InvoiceID)
	fmt.Fprintf(&b, "Room: %s (%s)\n", m.RoomNumber, m.RoomTypeName)
	fmt.Fprintf(&b, "Check-in: %s\n", m.CheckIn.Format("2006-01-02"))
	fmt.Fprintf(&b, "Check-out: %s\n", m.CheckOut.Format("2006-01-02"))
	fmt.Fprintf(&b, "Nights: %d, guests: %d\n", m.Nights, m.Guests)
	fmt.Fprintf(&b, "Total: %s\n", FormatCents(m.TotalCents))
	msg.SetBodyString(mail.TypeTextPlain, b.String())
	return msg, nil
}

func (n *SMTPNotifier) contactMsg(m ContactMessage) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return nil, fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(n.cfg.OperatorEmail); err != nil {
		return nil, fmt.Errorf("set operator address: %w", err)
	}
	if err := msg.ReplyTo(m.Email); err != nil {
		return nil, fmt.Errorf("set reply-to address: %w", err)
	}
	msg.Subject("Contact: " + m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf("From: %s <%s>\n\n%s\n", m.Name, m.Email, m.Message))
	return msg, nil
}

func (n *SMTPNotifier) send(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{mail.WithPort(n.cfg.Port), mail.WithTLSPolicy(mail.TLSOpportunistic)}
	if n.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}
	c, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return c.DialAndSendWithContext(ctx, msg)
}

// FormatCents renders an amount such as 394400 as "$3,944.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := fmt.Sprintf("%d", cents/100)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), cents%100)
}
