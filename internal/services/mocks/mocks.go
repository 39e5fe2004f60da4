// Package mocks holds testify mocks for the service interfaces.
package mocks

import (
	"context"

	"github.com/calendula-cosmetics/storefront/internal/catalog/query"
	"github.com/calendula-cosmetics/storefront/internal/models"
	"github.com/calendula-cosmetics/storefront/pkg/stripe"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// CatalogService is a mock type for the service.CatalogService interface.
type CatalogService struct {
	mock.Mock
}

func (m *CatalogService) ListProducts(ctx context.Context, q query.ListQuery) (*query.ListResult, error) {
	args := m.Called(ctx, q)

	var res *query.ListResult
	if args.Get(0) != nil {
		res = args.Get(0).(*query.ListResult)
	}

	return res, args.Error(1)
}

func (m *CatalogService) GetProductBySlug(ctx context.Context, slug, locale string) (*models.ProductView, error) {
	args := m.Called(ctx, slug, locale)

	var view *models.ProductView
	if args.Get(0) != nil {
		view = args.Get(0).(*models.ProductView)
	}

	return view, args.Error(1)
}

func (m *CatalogService) PurgeCache() int {
	args := m.Called()

	return args.Int(0)
}

// CartService is a mock type for the service.CartService interface.
type CartService struct {
	mock.Mock
}

func (m *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)

	var cart *models.Cart
	if args.Get(0) != nil {
		cart = args.Get(0).(*models.Cart)
	}

	return cart, args.Error(1)
}

func (m *CartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {
	args := m.Called(ctx, userID, req)

	var cart *models.Cart
	if args.Get(0) != nil {
		cart = args.Get(0).(*models.Cart)
	}

	return cart, args.Error(1)
}

func (m *CartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error) {
	args := m.Called(ctx, userID, req)

	var cart *models.Cart
	if args.Get(0) != nil {
		cart = args.Get(0).(*models.Cart)
	}

	return cart, args.Error(1)
}

func (m *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

// PaymentService is a mock type for the service.PaymentService interface.
type PaymentService struct {
	mock.Mock
}

func (m *PaymentService) CreateCheckout(ctx context.Context, userID uuid.UUID, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {
	args := m.Called(ctx, userID, req)

	var res *models.CheckoutResponse
	if args.Get(0) != nil {
		res = args.Get(0).(*models.CheckoutResponse)
	}

	return res, args.Error(1)
}

func (m *PaymentService) GetOrder(ctx context.Context, stripeID string) (*models.Order, error) {
	args := m.Called(ctx, stripeID)

	var order *models.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*models.Order)
	}

	return order, args.Error(1)
}

func (m *PaymentService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error) {
	args := m.Called(ctx, payload, signature)

	event, _ := args.Get(0).(stripe.Event)

	return event, args.Error(1)
}
