package service

import (
	"context"

	"github.com/calendula-cosmetics/storefront/internal/catalog/query"
	"github.com/calendula-cosmetics/storefront/internal/models"
)

// CatalogService fronts the query client for the HTTP layer. Listing may
// return a usable (stale) result alongside an error; handlers decide how to
// present that.
type CatalogService interface {
	ListProducts(ctx context.Context, q query.ListQuery) (*query.ListResult, error)
	GetProductBySlug(ctx context.Context, slug, locale string) (*models.ProductView, error)
	PurgeCache() int
}

type catalogService struct {
	queries *query.Client
}

func NewCatalogService(queries *query.Client) CatalogService {
	return &catalogService{queries: queries}
}

func (s *catalogService) ListProducts(ctx context.Context, q query.ListQuery) (*query.ListResult, error) {
	return s.queries.List(ctx, q)
}

func (s *catalogService) GetProductBySlug(ctx context.Context, slug, locale string) (*models.ProductView, error) {
	return s.queries.GetBySlug(ctx, slug, locale)
}

func (s *catalogService) PurgeCache() int {
	return s.queries.Purge()
}
