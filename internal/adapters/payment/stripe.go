package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"evently/internal/domain"
)

const currency = "usd"

type stripeVerifier struct {
	secret string
}

// NewStripeVerifier returns a PaymentVerifier that checks the Stripe-Signature
// header against the endpoint's webhook signing secret.
func NewStripeVerifier(webhookSecret string) domain.PaymentVerifier {
	return &stripeVerifier{secret: webhookSecret}
}

func (v *stripeVerifier) Verify(payload []byte, signature string) (*domain.PaymentNotification, error) {
	if v.secret == "" {
		return nil, fmt.Errorf("%w: webhook secret is not configured", domain.ErrVerification)
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVerification, err)
	}

	n := &domain.PaymentNotification{ID: event.ID, Type: string(event.Type)}
	if n.Type != domain.CheckoutCompletedType {
		return n, nil
	}
	if event.Data == nil {
		return nil, fmt.Errorf("%w: checkout event has no data", domain.ErrVerification)
	}
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: decode checkout session: %v", domain.ErrVerification, err)
	}
	n.Checkout = &domain.CheckoutCompletion{
		SessionID:   session.ID,
		AmountTotal: session.AmountTotal,
		Metadata:    session.Metadata,
	}
	return n, nil
}

type stripeCheckout struct {
	api        *client.API
	successURL string
	cancelURL  string
}

// NewStripeCheckout returns a CheckoutProvider backed by Stripe Checkout.
// Buyers return to publicServerURL/profile after paying and to the site root on cancel.
func NewStripeCheckout(api *client.API, publicServerURL string) domain.CheckoutProvider {
	base := strings.TrimRight(publicServerURL, "/")
	return &stripeCheckout{
		api:        api,
		successURL: base + "/profile",
		cancelURL:  base + "/",
	}
}

func (c *stripeCheckout) CreateSession(ctx context.Context, input domain.CheckoutSessionInput) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(input.AmountMinor),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(input.EventTitle),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"eventId": input.EventID,
			"buyerId": input.BuyerID,
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(c.successURL),
		CancelURL:  stripe.String(c.cancelURL),
	}
	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) {
			return "", fmt.Errorf("stripe %s: %s", serr.Code, serr.Msg)
		}
		return "", err
	}
	if session.URL == "" {
		return "", errors.New("stripe returned a checkout session without url")
	}
	return session.URL, nil
}
