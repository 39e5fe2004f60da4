package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	apperrors "github.com/calendula-cosmetics/storefront/internal/errors"
	"github.com/calendula-cosmetics/storefront/internal/models"
	repository "github.com/calendula-cosmetics/storefront/internal/repositories"
	"github.com/calendula-cosmetics/storefront/pkg/stripe"
	"github.com/google/uuid"
)

type PaymentService interface {
	CreateCheckout(ctx context.Context, userID uuid.UUID, req *models.CheckoutRequest) (*models.CheckoutResponse, error)
	GetOrder(ctx context.Context, stripeID string) (*models.Order, error)
	ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error)
}

type paymentService struct {
	orders       repository.OrderRepository
	carts        CartService
	stripeClient stripe.Client
}

func NewPaymentService(orders repository.OrderRepository, carts CartService, stripeClient stripe.Client) PaymentService {
	return &paymentService{orders: orders, carts: carts, stripeClient: stripeClient}
}

// CreateCheckout opens a payment intent for the user's cart total. The cart
// keeps prices in major units; Stripe wants minor units, so the conversion
// happens here and only here.
func (s *paymentService) CreateCheckout(ctx context.Context, userID uuid.UUID, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(cart.Items) == 0 {
		return nil, apperrors.BadRequestError("Cart is empty")
	}

	currency := cart.Currency
	if req.Currency != "" {
		currency = req.Currency
	}

	amountMinor := int64(math.Round(cart.Total * 100))

	description := fmt.Sprintf("Storefront order (%d items)", len(cart.Items))

	paymentIntent, err := s.stripeClient.CreatePaymentIntent(amountMinor, strings.ToLower(currency), description, userID.String())
	if err != nil {
		return nil, apperrors.ThirdPartyError("Failed to create payment intent").WithError(err)
	}

	items := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, item)
	}

	order := &models.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Items:     items,
		Amount:    cart.Total,
		Currency:  currency,
		Status:    models.PaymentStatusPending,
		StripeID:  paymentIntent.ID,
		CreatedAt: time.Now(),
	}

	if err := s.orders.SaveOrder(ctx, order); err != nil {
		return nil, apperrors.InternalError("Failed to record order").WithError(err)
	}

	return &models.CheckoutResponse{
		Order:        order,
		ClientSecret: paymentIntent.ClientSecret,
		Message:      "Checkout initiated successfully.",
	}, nil
}

func (s *paymentService) GetOrder(ctx context.Context, stripeID string) (*models.Order, error) {
	order, err := s.orders.GetOrderByStripeID(ctx, stripeID)
	if err != nil {
		return nil, apperrors.NotFoundError("Order not found").WithError(err)
	}

	return order, nil
}

// ProcessWebhook verifies the provider's signature and applies the payment
// outcome to the recorded order. The cart is only cleared on success.
func (s *paymentService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error) {
	event, err := s.stripeClient.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return stripe.Event{}, apperrors.ThirdPartyError("Webhook signature verification failed").WithError(err)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		stripeID, err := intentID(event)
		if err != nil {
			return event, err
		}

		if err := s.orders.UpdateOrderStatus(ctx, stripeID, models.PaymentStatusSucceeded); err != nil {
			return event, apperrors.InternalError("Failed to update order status").WithError(err)
		}

		if order, err := s.orders.GetOrderByStripeID(ctx, stripeID); err == nil {
			if err := s.carts.ClearCart(ctx, order.UserID); err != nil {
				return event, err
			}
		}

	case "payment_intent.payment_failed":
		stripeID, err := intentID(event)
		if err != nil {
			return event, err
		}

		if err := s.orders.UpdateOrderStatus(ctx, stripeID, models.PaymentStatusFailed); err != nil {
			return event, apperrors.InternalError("Failed to update order status").WithError(err)
		}
	}

	return event, nil
}

func intentID(event stripe.Event) (string, error) {
	raw, ok := event.Data.Object["id"]
	if !ok {
		return "", apperrors.ContractViolationError("Payment intent ID not found in webhook payload")
	}

	stripeID, ok := raw.(string)
	if !ok || stripeID == "" {
		return "", apperrors.ContractViolationError("Payment intent ID is not a string in webhook payload")
	}

	return stripeID, nil
}
