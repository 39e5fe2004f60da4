package models

import (
	"time"

	"github.com/google/uuid"
)

type CartItem struct {
	ProductSlug string  `json:"product_slug"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Currency    string  `json:"currency"`
	TotalPrice  float64 `json:"total_price"`
}

type Cart struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	Items     map[string]CartItem `json:"items"`
	Currency  string              `json:"currency"`
	Total     float64             `json:"total"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Recalculate refreshes the per-item and cart totals after a mutation.
func (c *Cart) Recalculate() {
	total := 0.0

	for slug, item := range c.Items {
		item.TotalPrice = item.UnitPrice * float64(item.Quantity)
		c.Items[slug] = item
		total += item.TotalPrice
	}

	c.Total = total
}

type AddItemRequest struct {
	ProductSlug string `json:"product_slug" validate:"required"`
	Quantity    int    `json:"quantity"     validate:"required,min=1"`
}

type UpdateQuantityRequest struct {
	ProductSlug string `json:"product_slug" validate:"required"`
	Quantity    int    `json:"quantity"     validate:"min=0"`
}
