package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/calendula-cosmetics/storefront/internal/models"
	"github.com/redis/go-redis/v9"
)

var ErrOrderNotFound = errors.New("order not found")

// Orders are kept for a long window; the payment provider remains the source
// of truth, this store only tracks checkout status for the storefront.
const orderTTL = 30 * 24 * time.Hour

type OrderRepository interface {
	SaveOrder(ctx context.Context, order *models.Order) error
	GetOrderByStripeID(ctx context.Context, stripeID string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, stripeID string, status models.PaymentStatus) error
}

type orderRepository struct {
	client *redis.Client
}

func NewOrderRepo(client *redis.Client) OrderRepository {
	return &orderRepository{client: client}
}

func orderKey(stripeID string) string {
	return "order:" + stripeID
}

func (r *orderRepository) SaveOrder(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now()

	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order %s: %w", order.ID, err)
	}

	if err := r.client.Set(ctx, orderKey(order.StripeID), string(data), orderTTL).Err(); err != nil {
		return fmt.Errorf("failed to save order %s: %w", order.ID, err)
	}

	return nil
}

func (r *orderRepository) GetOrderByStripeID(ctx context.Context, stripeID string) (*models.Order, error) {
	data, err := r.client.Get(ctx, orderKey(stripeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrOrderNotFound
		}

		return nil, fmt.Errorf("failed to get order %s: %w", stripeID, err)
	}

	order := &models.Order{}
	if err := json.Unmarshal(data, order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order %s: %w", stripeID, err)
	}

	return order, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, stripeID string, status models.PaymentStatus) error {
	order, err := r.GetOrderByStripeID(ctx, stripeID)
	if err != nil {
		return err
	}

	order.Status = status

	return r.SaveOrder(ctx, order)
}
