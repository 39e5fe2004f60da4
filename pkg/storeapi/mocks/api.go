// Package mocks holds a testify mock for the store API client interface.
package mocks

import (
	"context"

	"github.com/calendula-cosmetics/storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

// API is a mock type for the storeapi.API interface.
type API struct {
	mock.Mock
}

func (m *API) ListProducts(ctx context.Context, criteria models.FilterCriteria, page, pageSize int) ([]*models.ProductRecord, int, error) {
	args := m.Called(ctx, criteria, page, pageSize)

	var records []*models.ProductRecord
	if args.Get(0) != nil {
		records = args.Get(0).([]*models.ProductRecord)
	}

	return records, args.Int(1), args.Error(2)
}

func (m *API) GetProductBySlug(ctx context.Context, slug string) (*models.ProductRecord, error) {
	args := m.Called(ctx, slug)

	var record *models.ProductRecord
	if args.Get(0) != nil {
		record = args.Get(0).(*models.ProductRecord)
	}

	return record, args.Error(1)
}
