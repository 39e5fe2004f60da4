package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calendula-cosmetics/storefront/internal/api/handlers"
	"github.com/calendula-cosmetics/storefront/internal/api/middleware"
	"github.com/calendula-cosmetics/storefront/internal/catalog/query"
	"github.com/calendula-cosmetics/storefront/internal/config"
	"github.com/calendula-cosmetics/storefront/internal/health"
	"github.com/calendula-cosmetics/storefront/internal/metrics"
	"github.com/calendula-cosmetics/storefront/internal/models"
	repository "github.com/calendula-cosmetics/storefront/internal/repositories"
	service "github.com/calendula-cosmetics/storefront/internal/services"
	"github.com/calendula-cosmetics/storefront/pkg/storeapi"
	"github.com/calendula-cosmetics/storefront/pkg/stripe"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Redis setup (carts and orders)
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Redis connection closed")
		}
	}()

	jwtKey := []byte(cfg.Security.JWTKey)
	stripeClient := stripe.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)

	// Catalog query layer over the hosted store API
	storeAPI := storeapi.NewClient(cfg.StoreAPI.BaseURL, cfg.StoreAPI.APIKey, cfg.StoreAPI.Timeout)
	queryClient := query.NewClient(storeAPI, query.NewStore(), query.Options{
		ListTTL:    cfg.CatalogCache.ListTTL,
		DetailTTL:  cfg.CatalogCache.DetailTTL,
		MaxRetries: cfg.CatalogCache.MaxRetries,
	})

	cartRepo := repository.NewCartRepo(redisClient, cfg.CatalogCache.CartTTL)
	orderRepo := repository.NewOrderRepo(redisClient)

	catalogService := service.NewCatalogService(queryClient)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartService := service.NewCartService(cartRepo, catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	paymentService := service.NewPaymentService(orderRepo, cartService, stripeClient)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)
	localeMiddleware := middleware.NewLocaleMiddleware(cfg.Locales.Supported, cfg.Locales.Default)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{
		RedisClient:  redisClient,
		StripeClient: stripeClient,
	})
	if err != nil {
		slog.Error("❌ Error building health checks", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storefront initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/catalog/products", catalogHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/catalog/products/{slug}", catalogHandler.GetProduct())
	routerMux.HandleFunc("POST /api/v1/admin/catalog/purge",
		authMiddleware.Authenticate(authMiddleware.RequireRole(models.RoleAdmin, catalogHandler.PurgeCache())))
	routerMux.HandleFunc("GET /api/v1/cart", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/cart", authMiddleware.Authenticate(cartHandler.ClearCart()))
	routerMux.HandleFunc("POST /api/v1/checkout", authMiddleware.Authenticate(paymentHandler.CreateCheckout()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(paymentHandler.GetOrder()))
	routerMux.HandleFunc("POST /api/v1/webhooks/stripe", paymentHandler.HandleStripeWebhook())
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = localeMiddleware.Resolve(handler)
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

}
