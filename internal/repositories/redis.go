package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/calendula-cosmetics/storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the Redis instance backing carts and orders.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisConnect.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.DB = cfg.RedisConnect.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", slog.String("host", cfg.RedisConnect.Host))

	return client, nil
}
