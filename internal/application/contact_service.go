package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/hotel-yunuen/service-reservation/internal/adapter"
)

// ContactRequest is a visitor's contact-form submission.
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

// ContactService forwards contact-form messages to the operator.
type ContactService struct {
	notifier adapter.Notifier
	logger   *zap.Logger
}

// NewContactService creates a ContactService.
func NewContactService(notifier adapter.Notifier, logger *zap.Logger) *ContactService {
	return &ContactService{notifier: notifier, logger: logger}
}

// Send forwards req to the operator mailbox.
func (s *ContactService) Send(ctx context.Context, req ContactRequest) error {
	err := s.notifier.SendContactMessage(ctx, adapter.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		s.logger.Error("failed to forward contact message", zap.String("email", req.Email), zap.Error(err))
		return err
	}
	s.logger.Info("contact message forwarded", zap.String("email", req.Email))
	return nil
}
