package handlers

import (
	"io"
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

type PaymentHandler struct {
	paymentService service.PaymentService
	validator      *validator.Validate
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, validator: validator.New()}
}

// CreateCheckout opens a payment intent for the caller's cart.
func (h *PaymentHandler) CreateCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized checkout attempt")
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))

			return
		}

		var req models.CheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		checkout, err := h.paymentService.CreateCheckout(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to initiate checkout", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("Checkout initiated", slog.String("orderId", checkout.Order.ID))
		response.Success(w, http.StatusOK, checkout)
	}
}

// GetOrder reads back an order by its payment intent ID. Customers may only
// read their own orders; admins may read any.
func (h *PaymentHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))

			return
		}

		idStr := r.PathValue("id")
		if idStr == "" {
			response.Error(w, apperrors.BadRequestError("Order ID is required"))

			return
		}

		order, err := h.paymentService.GetOrder(r.Context(), idStr)
		if err != nil {
			logger.Warn("Failed to get order",
				slog.String("orderId", idStr),
				slog.String("error", err.Error()),
			)
			response.Error(w, err)

			return
		}

		if order.UserID != claims.UserID && claims.Role != models.RoleAdmin {
			logger.Warn("User attempted to read another user's order")
			response.Error(w, apperrors.ForbiddenError("You can only view your own orders"))

			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// HandleStripeWebhook receives payment outcomes from the provider. Signature
// verification happens in the service; this route carries no session auth.
func (h *PaymentHandler) HandleStripeWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Error("Error reading webhook body", slog.String("error", err.Error()))
			response.Error(w, apperrors.BadRequestError("Failed to read request body"))

			return
		}

		signature := r.Header.Get("Stripe-Signature")
		if signature == "" {
			logger.Error("Missing Stripe signature")
			response.Error(w, apperrors.BadRequestError("Stripe-Signature header is required"))

			return
		}

		event, err := h.paymentService.ProcessWebhook(r.Context(), payload, signature)
		if err != nil {
			logger.Error("Failed to process payment webhook",
				slog.String("eventId", event.ID),
				slog.String("error", err.Error()),
			)
			response.Error(w, err)

			return
		}

		logger.Info("Payment webhook processed",
			slog.String("eventId", event.ID),
			slog.String("eventType", string(event.Type)),
		)
		response.Success(w, http.StatusOK, map[string]bool{"received": true})
	}
}
