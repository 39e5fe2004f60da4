package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/calendula-cosmetics/storefront/internal/api/middleware"
	"github.com/calendula-cosmetics/storefront/internal/catalog/codec"
	"github.com/calendula-cosmetics/storefront/internal/catalog/query"
	service "github.com/calendula-cosmetics/storefront/internal/services"
	"github.com/calendula-cosmetics/storefront/internal/utils/response"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListProducts serves the filtered catalog grid.
// for eg: GET /api/v1/catalog/products?category=skincare&labels=organic,vegan&page=2
func (h *CatalogHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		// Unknown or malformed filter params are dropped, never a 400.
		criteria := codec.Decode(r.URL.Query())

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

		listQuery := query.ListQuery{
			Criteria: criteria,
			Page:     page,
			PageSize: pageSize,
			Locale:   middleware.LocaleFromContext(r.Context()),
		}

		result, err := h.catalogService.ListProducts(r.Context(), listQuery)

		if err != nil {
			// A stale result alongside the error means a previous page is
			// still presentable; keep it on screen instead of failing.
			if result != nil {
				logger.Warn("Serving stale catalog page after upstream failure",
					slog.String("error", err.Error()),
					slog.Int("page", listQuery.Page),
				)
				response.Success(w, http.StatusOK, result)

				return
			}

			logger.Error("Catalog listing failed", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, result)
	}
}

// GetProduct serves a single product detail page.
func (h *CatalogHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		slug := r.PathValue("slug")

		product, err := h.catalogService.GetProductBySlug(r.Context(), slug, middleware.LocaleFromContext(r.Context()))

		if err != nil {
			logger.Warn("Product lookup failed",
				slog.String("slug", slug),
				slog.String("error", err.Error()),
			)
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// PurgeCache drops every cached catalog entry. Admin only; used after bulk
// catalog updates in the hosted store backend.
func (h *CatalogHandler) PurgeCache() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		purged := h.catalogService.PurgeCache()

		logger.Info("Catalog cache purged", slog.Int("entries", purged))
		response.Success(w, http.StatusOK, map[string]int{"purged": purged})
	}
}
