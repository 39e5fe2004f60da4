package testutils

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/calendula-cosmetics/storefront/internal/api/middleware"
	"github.com/calendula-cosmetics/storefront/internal/models"
	"github.com/google/uuid"
)

func CreateTestRequestWithContext(method, target string, body io.Reader, userID uuid.UUID, role string, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	claims := &models.Claims{UserID: userID, Email: "test@example.com", Role: role}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.WithValue(req.Context(), middleware.UserContextKey, claims)
	ctx = middleware.ContextWithLogger(ctx, logger)
	ctx = middleware.ContextWithLocale(ctx, "en")

	return req.WithContext(ctx)
}

func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := middleware.ContextWithLogger(req.Context(), logger)
	ctx = middleware.ContextWithLocale(ctx, "en")

	return req.WithContext(ctx)
}
