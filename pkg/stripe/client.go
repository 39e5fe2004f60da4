package stripe

import (
	"errors"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"
)

type Event = stripe.Event

// Client is the slice of the payment provider the checkout flow needs.
type Client interface {
	CreatePaymentIntent(amount int64, currency, description, customerID string) (*stripe.PaymentIntent, error)
	VerifyWebhookSignature(payload []byte, signature string) (Event, error)
}

type stripeClient struct {
	webhookSecret string
}

func NewStripeClient(apiKey, webhookSecret string) Client {
	stripe.Key = apiKey

	return &stripeClient{webhookSecret: webhookSecret}
}

// CreatePaymentIntent opens a planned payment with the provider. Amount is in
// minor units, as Stripe requires; the caller owns that conversion.
func (s *stripeClient) CreatePaymentIntent(amount int64, currency, description, customerID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
	}

	if customerID != "" {
		params.Customer = stripe.String(customerID)
	}

	return paymentintent.New(params)
}

// VerifyWebhookSignature implements Client.
func (s *stripeClient) VerifyWebhookSignature(payload []byte, signature string) (Event, error) {
	if s.webhookSecret == "" {
		return Event{}, errors.New("webhook secret not configured")
	}

	return webhook.ConstructEvent(payload, signature, s.webhookSecret)
}
