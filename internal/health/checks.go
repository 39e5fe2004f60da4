package health

import (
	"context"
	"fmt"
	"time"

	"github.com/calendula-cosmetics/storefront/internal/config"
	stripeClient "github.com/calendula-cosmetics/storefront/pkg/stripe"
	"github.com/hellofresh/health-go/v5"
	healthHTTP "github.com/hellofresh/health-go/v5/checks/http"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/balance"
)

type Endpoints struct {
	RedisClient  *redis.Client
	StripeClient stripeClient.Client
}

func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {
	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "storefront",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			health.Config{
				Name:      "redis",
				Timeout:   2 * time.Second,
				SkipOnErr: false,
				Check: healthRedis.New(
					healthRedis.Config{
						DSN: cfg.RedisConnect.GetDSN(),
					},
				),
			},
			health.Config{
				Name:      "store-api",
				Timeout:   3 * time.Second,
				SkipOnErr: false,
				Check: healthHTTP.New(healthHTTP.Config{
					URL: cfg.StoreAPI.BaseURL + "/health",
				}),
			},
			health.Config{
				Name:    "stripe",
				Timeout: 5 * time.Second,
				// The storefront still browses fine if payments are down.
				SkipOnErr: true,
				Check: func(ctx context.Context) error {
					if endpoints.StripeClient == nil {
						return fmt.Errorf("stripe client is not initialized")
					}
					params := &stripe.BalanceParams{
						Params: stripe.Params{
							Context: ctx,
						},
					}
					_, err := balance.Get(params)
					if err != nil {
						return fmt.Errorf("failed to connect to stripe: %w", err)
					}
					return nil
				},
			},
		),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
