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

func setupCartRepoTest(t *testing.T) (repository.CartRepository, redismock.ClientMock) {
	t.Helper()

	db, mock := redismock.NewClientMock()
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.NewCartRepo(db, 72*time.Hour)
	require.NotNil(t, repo)

	return repo, mock
}

func TestGetCart(t *testing.T) {
	repo, mock := setupCartRepoTest(t)
	ctx := t.Context()
	userID := uuid.New()

	t.Run("Success - Existing Cart", func(t *testing.T) {
		// Arrange
		cart := &models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Items: map[string]models.CartItem{
				"calendula-soap": {ProductSlug: "calendula-soap", Quantity: 2, UnitPrice: 19.9, TotalPrice: 39.8},
			},
			Total: 39.8,
		}
		data, err := json.Marshal(cart)
		require.NoError(t, err)

		mock.ExpectGet("cart:" + userID.String()).SetVal(string(data))

		// Act
		got, err := repo.GetCart(ctx, userID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, cart.ID, got.ID)
		assert.Len(t, got.Items, 1)
		assert.InDelta(t, 39.8, got.Total, 0.001)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - No Cart Yet", func(t *testing.T) {
		// Arrange
		mock.ExpectGet("cart:" + userID.String()).RedisNil()

		// Act
		got, err := repo.GetCart(ctx, userID)

		// Assert
		assert.Nil(t, got)
		assert.ErrorIs(t, err, repository.ErrCartNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Nil Items Normalized", func(t *testing.T) {
		// Arrange
		mock.ExpectGet("cart:" + userID.String()).SetVal(`{"id":"` + uuid.NewString() + `","user_id":"` + userID.String() + `","items":null}`)

		// Act
		got, err := repo.GetCart(ctx, userID)

		// Assert
		require.NoError(t, err)
		assert.NotNil(t, got.Items)
	})
}

func TestSaveCart(t *testing.T) {
	repo, mock := setupCartRepoTest(t)
	ctx := t.Context()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		cart := &models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Items:  map[string]models.CartItem{},
		}

		// The value reaches Redis as the marshaled JSON string, so the
		// expectation can match on its content.
		mock.Regexp().ExpectSet("cart:"+userID.String(), `.*"user_id":"`+userID.String()+`".*`, 72*time.Hour).SetVal("OK")

		// Act
		err := repo.SaveCart(ctx, cart)

		// Assert
		require.NoError(t, err)
		assert.False(t, cart.UpdatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteCart(t *testing.T) {
	repo, mock := setupCartRepoTest(t)
	ctx := t.Context()
	userID := uuid.New()

	// Arrange
	mock.ExpectDel("cart:" + userID.String()).SetVal(1)

	// Act
	err := repo.DeleteCart(ctx, userID)

	// Assert
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
