package controllers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"evently/internal/delivery/http/helpers"
	"evently/internal/domain"
)

// maxWebhookBytes caps the notification body read before verification.
const maxWebhookBytes = 64 << 10

// stripeSignatureHeader carries the provider's payload signature.
const stripeSignatureHeader = "Stripe-Signature"

// WebhookResponse is the body of webhook replies.
type WebhookResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order,omitempty"`
	Error   string        `json:"error,omitempty"`
}

type WebhookController struct {
	Logger  *slog.Logger
	Service domain.OrderService
}

func NewWebhookController(logger *slog.Logger, svc domain.OrderService) *WebhookController {
	return &WebhookController{
		Logger:  logger,
		Service: svc,
	}
}

// StripeWebhook godoc
// @Summary Receive payment notifications
// @Description Verifies the Stripe-Signature header against the raw body. A completed checkout creates the order once; redeliveries return the stored order. Other notification types are acknowledged with an empty 200.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Provider signature"
// @Success 200 {object} controllers.WebhookResponse "message OK with the order"
// @Failure 400 {object} controllers.WebhookResponse "message Webhook error"
// @Failure 413 {object} controllers.WebhookResponse "body over 64 KiB"
// @Failure 500 {object} controllers.WebhookResponse "storage failure, provider redelivers"
// @Router /webhooks/stripe [post]
func (c *WebhookController) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		c.Logger.WarnContext(r.Context(), "payment notification too large", "limit", tooLarge.Limit)
		helpers.WriteJSON(w, http.StatusRequestEntityTooLarge, WebhookResponse{Message: "Webhook error", Error: "payload too large"})
		return
	case err != nil:
		helpers.WriteJSON(w, http.StatusBadRequest, WebhookResponse{Message: "Webhook error", Error: "unreadable body"})
		return
	}

	result, err := c.Service.Intake(r.Context(), payload, r.Header.Get(stripeSignatureHeader))
	switch {
	case errors.Is(err, domain.ErrVerification):
		c.Logger.WarnContext(r.Context(), "payment notification rejected", "err", err)
		helpers.WriteJSON(w, http.StatusBadRequest, WebhookResponse{Message: "Webhook error", Error: err.Error()})
		return
	case errors.Is(err, domain.ErrValidation):
		helpers.WriteJSON(w, http.StatusBadRequest, WebhookResponse{Message: "Webhook error", Error: err.Error()})
		return
	case err != nil:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSON(w, http.StatusInternalServerError, WebhookResponse{Message: "Failed to store order", Error: "internal server error"})
		return
	}

	if result.Order == nil {
		c.Logger.DebugContext(r.Context(), "payment notification ignored", "type", result.NotificationType)
		w.WriteHeader(http.StatusOK)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, WebhookResponse{Message: "OK", Order: result.Order})
}
