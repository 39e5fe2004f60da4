package repository_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/calendula-cosmetics/storefront/internal/models"
	repository "github.com/calendula-cosmetics/storefront/internal/repositories"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrderRepoTest(t *testing.T) (repository.OrderRepository, redismock.ClientMock) {
	t.Helper()

	db, mock := redismock.NewClientMock()
	t.Cleanup(func() { _ = db.Close() })

	return repository.NewOrderRepo(db), mock
}

func TestOrderRepository(t *testing.T) {
	repo, mock := setupOrderRepoTest(t)
	ctx := t.Context()

	order := &models.Order{
		ID:       uuid.NewString(),
		UserID:   uuid.New(),
		Amount:   59.7,
		Currency: "EUR",
		Status:   models.PaymentStatusPending,
		StripeID: "pi_123",
	}

	t.Run("Save Order", func(t *testing.T) {
		// Arrange
		mock.Regexp().ExpectSet("order:pi_123", `.*`, 30*24*time.Hour).SetVal("OK")

		// Act
		err := repo.SaveOrder(ctx, order)

		// Assert
		require.NoError(t, err)
	})

	t.Run("Get Order By Stripe ID", func(t *testing.T) {
		// Arrange
		data, err := json.Marshal(order)
		require.NoError(t, err)
		mock.ExpectGet("order:pi_123").SetVal(string(data))

		// Act
		got, err := repo.GetOrderByStripeID(ctx, "pi_123")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
		assert.InDelta(t, 59.7, got.Amount, 0.001)
	})

	t.Run("Get Missing Order", func(t *testing.T) {
		// Arrange
		mock.ExpectGet("order:pi_missing").RedisNil()

		// Act
		got, err := repo.GetOrderByStripeID(ctx, "pi_missing")

		// Assert
		assert.Nil(t, got)
		assert.ErrorIs(t, err, repository.ErrOrderNotFound)
	})

	t.Run("Update Order Status", func(t *testing.T) {
		// Arrange
		data, err := json.Marshal(order)
		require.NoError(t, err)
		mock.ExpectGet("order:pi_123").SetVal(string(data))
		mock.Regexp().ExpectSet("order:pi_123", `.*"status":"succeeded".*`, 30*24*time.Hour).SetVal("OK")

		// Act
		err = repo.UpdateOrderStatus(ctx, "pi_123", models.PaymentStatusSucceeded)

		// Assert
		require.NoError(t, err)
	})
}
