package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/calendula-cosmetics/storefront/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCartNotFound is returned when a user has no cart yet.
var ErrCartNotFound = errors.New("cart not found")

type CartRepository interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, userID uuid.UUID) error
}

type cartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepo(client *redis.Client, ttl time.Duration) CartRepository {
	return &cartRepository{client: client, ttl: ttl}
}

func cartKey(userID uuid.UUID) string {
	return "cart:" + userID.String()
}

func (r *cartRepository) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCartNotFound
		}

		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}

	cart := &models.Cart{}
	if err := json.Unmarshal(data, cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart for user %s: %w", userID, err)
	}

	if cart.Items == nil {
		cart.Items = make(map[string]models.CartItem)
	}

	return cart, nil
}

func (r *cartRepository) SaveCart(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart for user %s: %w", cart.UserID, err)
	}

	if err := r.client.Set(ctx, cartKey(cart.UserID), string(data), r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart for user %s: %w", cart.UserID, err)
	}

	return nil
}

func (r *cartRepository) DeleteCart(ctx context.Context, userID uuid.UUID) error {
	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart for user %s: %w", userID, err)
	}

	return nil
}
