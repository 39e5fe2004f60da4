package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/calendula-cosmetics/storefront/internal/api/handlers"
	"github.com/calendula-cosmetics/storefront/internal/catalog/query"
	appErrors "github.com/calendula-cosmetics/storefront/internal/errors"
	"github.com/calendula-cosmetics/storefront/internal/models"
	"github.com/calendula-cosmetics/storefront/internal/services/mocks"
	"github.com/calendula-cosmetics/storefront/internal/testutils"
	"github.com/calendula-cosmetics/storefront/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCatalogTest() (*mocks.CatalogService, *handlers.CatalogHandler) {
	mockCatalogService := new(mocks.CatalogService)
	catalogHandler := handlers.NewCatalogHandler(mockCatalogService)

	return mockCatalogService, catalogHandler
}

func listResult(stale bool) *query.ListResult {
	return &query.ListResult{
		Items: []models.ProductView{
			{ID: "prod_1", Slug: "calendula-soap", Name: "Calendula Soap", Price: 19.9, Currency: "EUR", InStock: true},
		},
		Pagination: models.Pagination{Page: 1, PageSize: 12, Total: 1, TotalPages: 1},
		Stale:      stale,
	}
}

func TestListProducts(t *testing.T) {
	t.Run("Success - Filter Params Decoded", func(t *testing.T) {
		// Arrange
		mockCatalogService, catalogHandler := setupCatalogTest()
		req := testutils.CreateTestRequestWithoutContext("GET",
			"/api/v1/catalog/products?category=skincare&labels=vegan,organic&page=2&pageSize=24&bogus=1", nil, nil)
		recorder := httptest.NewRecorder()

		mockCatalogService.On("ListProducts", mock.Anything, mock.MatchedBy(func(q query.ListQuery) bool {
			return q.Criteria.CategoryID != nil && *q.Criteria.CategoryID == "skincare" &&
				len(q.Criteria.Labels) == 2 && q.Criteria.Labels[0] == "organic" &&
				q.Page == 2 && q.PageSize == 24 && q.Locale == "en"
		})).Return(listResult(false), nil).Once()

		// Act
		catalogHandler.ListProducts()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		mockCatalogService.AssertExpectations(t)
	})

	t.Run("Success - Stale Result Served On Upstream Failure", func(t *testing.T) {
		// Arrange
		mockCatalogService, catalogHandler := setupCatalogTest()
		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/catalog/products?page=3", nil, nil)
		recorder := httptest.NewRecorder()

		mockCatalogService.On("ListProducts", mock.Anything, mock.Anything).
			Return(listResult(true), appErrors.UpstreamError("Store API unavailable")).Once()

		// Act
		catalogHandler.ListProducts()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		data, err := json.Marshal(resp.Data)
		require.NoError(t, err)

		var result query.ListResult
		require.NoError(t, json.Unmarshal(data, &result))
		assert.True(t, result.Stale)
		assert.Len(t, result.Items, 1)
	})

	t.Run("Failure - No Fallback Available", func(t *testing.T) {
		// Arrange
		mockCatalogService, catalogHandler := setupCatalogTest()
		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/catalog/products", nil, nil)
		recorder := httptest.NewRecorder()

		mockCatalogService.On("ListProducts", mock.Anything, mock.Anything).
			Return(nil, appErrors.UpstreamError("Store API unavailable")).Once()

		// Act
		catalogHandler.ListProducts()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadGateway, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, appErrors.ErrCodeUpstream, resp.Error.Code)
		assert.True(t, resp.Error.Retryable)
	})

	t.Run("Success - Empty Result Serializes As Empty List", func(t *testing.T) {
		// Arrange
		mockCatalogService, catalogHandler := setupCatalogTest()
		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/catalog/products?category=unknown", nil, nil)
		recorder := httptest.NewRecorder()

		empty := &query.ListResult{
			Items:      []models.ProductView{},
			Pagination: models.Pagination{Page: 1, PageSize: 12},
		}
		mockCatalogService.On("ListProducts", mock.Anything, mock.Anything).Return(empty, nil).Once()

		// Act
		catalogHandler.ListProducts()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"items":[]`)
	})
}

func TestGetProduct(t *testing.T) {
	t.Run("Success - Product Found", func(t *testing.T) {
		// Arrange
		mockCatalogService, catalogHandler := setupCatalogTest()
		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/catalog/products/calendula-soap", nil,
			map[string]string{"slug": "calendula-soap"})
		recorder := httptest.NewRecorder()

		view := &models.ProductView{ID: "prod_1", Slug: "calendula-soap", Name: "Calendula Soap", Price: 19.9}
		mockCatalogService.On("GetProductBySlug", mock.Anything, "calendula-soap", "en").Return(view, nil).Once()

		// Act
		catalogHandler.GetProduct()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCatalogService.AssertExpectations(t)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		mockCatalogService, catalogHandler := setupCatalogTest()
		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/catalog/products/missing", nil,
			map[string]string{"slug": "missing"})
		recorder := httptest.NewRecorder()

		mockCatalogService.On("GetProductBySlug", mock.Anything, "missing", "en").
			Return(nil, appErrors.NotFoundError("Product not found")).Once()

		// Act
		catalogHandler.GetProduct()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, appErrors.ErrCodeNotFound, resp.Error.Code)
		assert.False(t, resp.Error.Retryable)
	})
}

func TestPurgeCache(t *testing.T) {
	t.Run("Success - Reports Purged Entries", func(t *testing.T) {
		// Arrange
		mockCatalogService, catalogHandler := setupCatalogTest()
		req := testutils.CreateTestRequestWithoutContext("POST", "/api/v1/admin/catalog/purge", nil, nil)
		recorder := httptest.NewRecorder()

		mockCatalogService.On("PurgeCache").Return(7).Once()

		// Act
		catalogHandler.PurgeCache()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"purged":7`)
		mockCatalogService.AssertExpectations(t)
	})
}
