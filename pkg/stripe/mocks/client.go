// Package mocks holds a testify mock for the payment provider client.
package mocks

import (
	stripeapi "github.com/stripe/stripe-go/v81"
	"github.com/stretchr/testify/mock"

	"github.com/calendula-cosmetics/storefront/pkg/stripe"
)

// Client is a mock type for the stripe.Client interface.
type Client struct {
	mock.Mock
}

func (m *Client) CreatePaymentIntent(amount int64, currency, description, customerID string) (*stripeapi.PaymentIntent, error) {
	args := m.Called(amount, currency, description, customerID)

	var intent *stripeapi.PaymentIntent
	if args.Get(0) != nil {
		intent = args.Get(0).(*stripeapi.PaymentIntent)
	}

	return intent, args.Error(1)
}

func (m *Client) VerifyWebhookSignature(payload []byte, signature string) (stripe.Event, error) {
	args := m.Called(payload, signature)

	event, _ := args.Get(0).(stripe.Event)

	return event, args.Error(1)
}
