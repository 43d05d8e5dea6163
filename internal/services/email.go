package services

import (
	"context"
	"fmt"
	"log/slog"

	"evently/internal/domain"
)

const orderConfirmationTemplate = "order_confirmation"

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendOrderConfirmation sends the "order_confirmation" template to the buyer.
func (s *emailService) SendOrderConfirmation(ctx context.Context, data *domain.OrderConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("order confirmation data is nil")
	}
	if data.Email == "" {
		return fmt.Errorf("%w: recipient email is required", domain.ErrValidation)
	}
	subject, htmlBody, textBody, err := s.renderer.Render(orderConfirmationTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", orderConfirmationTemplate, err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send order confirmation email: %w", err)
	}
	s.logger.InfoContext(ctx, "order confirmation sent", "order_id", data.OrderID, "to", data.Email)
	return nil
}
