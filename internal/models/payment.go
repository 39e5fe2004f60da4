package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Order is the checkout snapshot recorded when a payment intent is created.
// Amount is in major currency units, matching the catalog; conversion to the
// provider's minor units happens only at the Stripe boundary.
type Order struct {
	ID        string        `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Items     []CartItem    `json:"items"`
	Amount    float64       `json:"amount"`
	Currency  string        `json:"currency"`
	Status    PaymentStatus `json:"status"`
	StripeID  string        `json:"stripe_id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type CheckoutRequest struct {
	Currency string `json:"currency" validate:"omitempty,iso4217"`
}

type CheckoutResponse struct {
	Order        *Order `json:"order"`
	ClientSecret string `json:"client_secret,omitempty"`
	Message      string `json:"message,omitempty"`
}
