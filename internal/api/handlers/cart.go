package handlers

import (
	"log/slog"
	"net/http"

	"github.com/calendula-cosmetics/storefront/internal/api/middleware"
	apperrors "github.com/calendula-cosmetics/storefront/internal/errors"
	"github.com/calendula-cosmetics/storefront/internal/models"
	service "github.com/calendula-cosmetics/storefront/internal/services"
	"github.com/calendula-cosmetics/storefront/internal/utils"
	"github.com/calendula-cosmetics/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
	}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))

			return
		}

		cart, err := h.cartService.GetCart(r.Context(), claims.UserID)

		if err != nil {
			logger.Error("Failed to load cart", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))

			return
		}

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), claims.UserID, &req)

		if err != nil {
			logger.Warn("Failed to add item to cart",
				slog.String("productSlug", req.ProductSlug),
				slog.String("error", err.Error()),
			)
			response.Error(w, err)

			return
		}

		logger.Info("Item added to cart", slog.String("productSlug", req.ProductSlug))
		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))

			return
		}

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := h.cartService.UpdateQuantity(r.Context(), claims.UserID, &req)

		if err != nil {
			logger.Warn("Failed to update cart quantity",
				slog.String("productSlug", req.ProductSlug),
				slog.String("error", err.Error()),
			)
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))

			return
		}

		if err := h.cartService.ClearCart(r.Context(), claims.UserID); err != nil {
			logger.Error("Failed to clear cart", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Cart cleared")
		response.Success(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
	}
}
