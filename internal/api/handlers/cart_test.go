package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/calendula-cosmetics/storefront/internal/api/handlers"
	appErrors "github.com/calendula-cosmetics/storefront/internal/errors"
	"github.com/calendula-cosmetics/storefront/internal/models"
	"github.com/calendula-cosmetics/storefront/internal/services/mocks"
	"github.com/calendula-cosmetics/storefront/internal/testutils"
	"github.com/calendula-cosmetics/storefront/internal/utils/response"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCartTest() (*mocks.CartService, *handlers.CartHandler) {
	mockCartService := new(mocks.CartService)
	cartHandler := handlers.NewCartHandler(mockCartService)

	return mockCartService, cartHandler
}

func TestGetCartHandler(t *testing.T) {
	t.Run("Success - Retrieve Cart", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		userID := uuid.New()
		req := testutils.CreateTestRequestWithContext("GET", "/api/v1/cart", nil, userID, models.RoleCustomer, nil)
		recorder := httptest.NewRecorder()

		mockCart := &models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Items:  map[string]models.CartItem{},
		}

		mockCartService.On("GetCart", mock.Anything, userID).Return(mockCart, nil).Once()

		// Act
		cartHandler.GetCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		// Arrange
		_, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/cart", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.GetCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestAddItemHandler(t *testing.T) {
	t.Run("Success - Add Item", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		userID := uuid.New()
		body, _ := json.Marshal(models.AddItemRequest{ProductSlug: "calendula-soap", Quantity: 2})
		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/cart/items", bytes.NewBuffer(body), userID, models.RoleCustomer, nil)
		recorder := httptest.NewRecorder()

		mockCart := &models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Items: map[string]models.CartItem{
				"calendula-soap": {ProductSlug: "calendula-soap", Quantity: 2, UnitPrice: 19.9},
			},
			Total: 39.8,
		}

		mockCartService.On("AddItem", mock.Anything, userID, mock.MatchedBy(func(r *models.AddItemRequest) bool {
			return r.ProductSlug == "calendula-soap" && r.Quantity == 2
		})).Return(mockCart, nil).Once()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Validation Error", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		userID := uuid.New()
		body, _ := json.Marshal(map[string]any{"quantity": 2})
		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/cart/items", bytes.NewBuffer(body), userID, models.RoleCustomer, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockCartService.AssertNotCalled(t, "AddItem")
	})

	t.Run("Failure - Out Of Stock Conflict", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		userID := uuid.New()
		body, _ := json.Marshal(models.AddItemRequest{ProductSlug: "calendula-soap", Quantity: 1})
		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/cart/items", bytes.NewBuffer(body), userID, models.RoleCustomer, nil)
		recorder := httptest.NewRecorder()

		mockCartService.On("AddItem", mock.Anything, userID, mock.Anything).
			Return(nil, appErrors.ConflictError("Product is out of stock")).Once()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusConflict, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, appErrors.ErrCodeConflict, resp.Error.Code)
	})
}

func TestUpdateQuantityHandler(t *testing.T) {
	t.Run("Success - Update Quantity", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		userID := uuid.New()
		body, _ := json.Marshal(models.UpdateQuantityRequest{ProductSlug: "calendula-soap", Quantity: 5})
		req := testutils.CreateTestRequestWithContext("PUT", "/api/v1/cart/items", bytes.NewBuffer(body), userID, models.RoleCustomer, nil)
		recorder := httptest.NewRecorder()

		mockCart := &models.Cart{ID: uuid.New(), UserID: userID, Items: map[string]models.CartItem{}}
		mockCartService.On("UpdateQuantity", mock.Anything, userID, mock.Anything).Return(mockCart, nil).Once()

		// Act
		cartHandler.UpdateQuantity()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCartService.AssertExpectations(t)
	})
}

func TestClearCartHandler(t *testing.T) {
	t.Run("Success - Clear Cart", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		userID := uuid.New()
		req := testutils.CreateTestRequestWithContext("DELETE", "/api/v1/cart", nil, userID, models.RoleCustomer, nil)
		recorder := httptest.NewRecorder()

		mockCartService.On("ClearCart", mock.Anything, userID).Return(nil).Once()

		// Act
		cartHandler.ClearCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCartService.AssertExpectations(t)
	})
}
