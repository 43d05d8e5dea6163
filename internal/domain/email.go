package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// OrderConfirmationEmailData holds data for the order confirmation email.
type OrderConfirmationEmailData struct {
	Email         string
	FirstName     string
	OrderID       string
	EventTitle    string
	EventLocation string
	StartDateTime string
	TotalAmount   string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendOrderConfirmation(ctx context.Context, data *OrderConfirmationEmailData) error
}
