package service

import (
	"context"
	"errors"
	"time"

	"github.com/calendula-cosmetics/storefront/internal/catalog/mapper"
	apperrors "github.com/calendula-cosmetics/storefront/internal/errors"
	"github.com/calendula-cosmetics/storefront/internal/models"
	repository "github.com/calendula-cosmetics/storefront/internal/repositories"
	"github.com/google/uuid"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	repo    repository.CartRepository
	catalog CatalogService
}

func NewCartService(repo repository.CartRepository, catalog CatalogService) CartService {
	return &cartService{repo: repo, catalog: catalog}
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return newCart(userID), nil
		}

		return nil, apperrors.InternalError("Failed to load cart").WithError(err)
	}

	return cart, nil
}

// AddItem snapshots the product's current unit price into the cart. Prices
// stay in major units; the Stripe boundary converts later.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {
	product, err := s.catalog.GetProductBySlug(ctx, req.ProductSlug, mapper.DefaultLocale)
	if err != nil {
		return nil, err
	}

	if !product.InStock {
		return nil, apperrors.ConflictError("Product is out of stock").WithDetail(req.ProductSlug)
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, exists := cart.Items[req.ProductSlug]
	if exists {
		item.Quantity += req.Quantity
	} else {
		item = models.CartItem{
			ProductSlug: product.Slug,
			Name:        product.Name,
			Quantity:    req.Quantity,
			UnitPrice:   product.Price,
			Currency:    product.Currency,
		}
	}

	cart.Items[req.ProductSlug] = item
	cart.Currency = product.Currency
	cart.Recalculate()

	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return nil, apperrors.InternalError("Failed to save cart").WithError(err)
	}

	return cart, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, exists := cart.Items[req.ProductSlug]; !exists {
		return nil, apperrors.NotFoundError("Item not in cart").WithDetail(req.ProductSlug)
	}

	if req.Quantity == 0 {
		delete(cart.Items, req.ProductSlug)
	} else {
		item := cart.Items[req.ProductSlug]
		item.Quantity = req.Quantity
		cart.Items[req.ProductSlug] = item
	}

	cart.Recalculate()

	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return nil, apperrors.InternalError("Failed to save cart").WithError(err)
	}

	return cart, nil
}

func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteCart(ctx, userID); err != nil {
		return apperrors.InternalError("Failed to clear cart").WithError(err)
	}

	return nil
}

func newCart(userID uuid.UUID) *models.Cart {
	return &models.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		Items:     make(map[string]models.CartItem),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
