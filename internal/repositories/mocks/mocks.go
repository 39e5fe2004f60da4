// Package mocks holds testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/calendula-cosmetics/storefront/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// CartRepository is a mock type for the repository.CartRepository interface.
type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)

	var cart *models.Cart
	if args.Get(0) != nil {
		cart = args.Get(0).(*models.Cart)
	}

	return cart, args.Error(1)
}

func (m *CartRepository) SaveCart(ctx context.Context, cart *models.Cart) error {
	args := m.Called(ctx, cart)

	return args.Error(0)
}

func (m *CartRepository) DeleteCart(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

// OrderRepository is a mock type for the repository.OrderRepository interface.
type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) SaveOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)

	return args.Error(0)
}

func (m *OrderRepository) GetOrderByStripeID(ctx context.Context, stripeID string) (*models.Order, error) {
	args := m.Called(ctx, stripeID)

	var order *models.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*models.Order)
	}

	return order, args.Error(1)
}

func (m *OrderRepository) UpdateOrderStatus(ctx context.Context, stripeID string, status models.PaymentStatus) error {
	args := m.Called(ctx, stripeID, status)

	return args.Error(0)
}
