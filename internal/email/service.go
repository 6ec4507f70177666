package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/telemetry"
)

// Service composes transactional email and records each send on the
// notification log.
type Service struct {
	sender        Sender
	notifications domain.NotificationStore
	fromAddress   string
	fromName      string
	logger        *slog.Logger
}

// NewService creates an email service.
func NewService(sender Sender, notifications domain.NotificationStore, fromAddress, fromName string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sender:        sender,
		notifications: notifications,
		fromAddress:   fromAddress,
		fromName:      fromName,
		logger:        logger,
	}
}

// SendOrderConfirmation emails the order receipt. The send is logged on the
// notification log either way; callers treat failures as best-effort.
func (s *Service) SendOrderConfirmation(ctx context.Context, order *domain.Order) error {
	htmlBody, textBody, err := renderOrderConfirmation(order)
	if err != nil {
		return err
	}

	msg := &Message{
		To:       []string{order.Email},
		From:     fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress),
		Subject:  "Order Confirmation - " + order.OrderNumber,
		HTMLBody: htmlBody,
		TextBody: textBody,
	}

	messageID, sendErr := s.sender.Send(ctx, msg)
	telemetry.RecordEmail(sendErr == nil)

	status := domain.NotificationSent
	if sendErr != nil {
		status = domain.NotificationFailed
	}
	entry := &domain.Notification{
		Channel:           "email",
		Recipient:         order.Email,
		Subject:           msg.Subject,
		Status:            status,
		ProviderMessageID: messageID,
	}
	if err := s.notifications.Append(ctx, entry); err != nil {
		s.logger.Error("email: failed to record notification", "recipient", order.Email, "error", err)
	}

	if sendErr != nil {
		return fmt.Errorf("failed to send order confirmation: %w", sendErr)
	}
	return nil
}
