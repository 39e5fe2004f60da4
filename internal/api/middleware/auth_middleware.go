package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/calendula-cosmetics/storefront/internal/errors"
	models "github.com/calendula-cosmetics/storefront/internal/models"
	"github.com/calendula-cosmetics/storefront/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey uuid.UUID

var UserContextKey = contextKey(uuid.New())

type AuthMiddleware struct {
	jwtKey []byte
}

func NewAuthMiddleware(jwtKey []byte) *AuthMiddleware {
	return &AuthMiddleware{jwtKey: jwtKey}
}

// Authenticate verifies the bearer token issued by the hosted auth service
// and attaches the decoded claims to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))

			return
		}

		// Token is of format : "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")

		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.Warn("Invalid authorization header format")
			response.Error(w, errors.UnauthorizedError("Invalid authorization format"))

			return
		}

		tokenString := tokenParts[1]

		claims := &models.Claims{}

		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				logger.Error("Unexpected signing method used in JWT", slog.Any("alg", t.Header["alg"]))

				return nil, errors.BadRequestError("unexpected signing method")
			}

			return m.jwtKey, nil
		})

		if err != nil {
			logger.Warn("JWT parsing failed", slog.String("error", err.Error()))
			response.Error(w, errors.UnauthorizedError("Invalid or expired token"))

			return
		}

		if !token.Valid {
			logger.Warn("Invalid token")
			response.Error(w, errors.UnauthorizedError("Invalid token"))

			return
		}

		if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
			logger.Warn("Expired token", slog.String("userId", claims.UserID.String()))
			response.Error(w, errors.UnauthorizedError("Token expired"))

			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)

		requestScopedLogger := logger.With(
			slog.String("userId", claims.UserID.String()),
			slog.String("role", claims.Role),
		)
		ctx = context.WithValue(ctx, loggerKey, requestScopedLogger)

		requestScopedLogger.Info("User authenticated")

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireRole guards an already-authenticated route. Runs after Authenticate.
func (m *AuthMiddleware) RequireRole(role string, next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := LoggerFromContext(r.Context())

		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Role check without authentication")
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		if claims.Role != role {
			logger.Warn("Insufficient role", slog.String("required", role))
			response.Error(w, errors.ForbiddenError("Insufficient permissions"))

			return
		}

		next.ServeHTTP(w, r)
	}
}

func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)

	return claims, ok
}
