package cache_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/stock-manager/internal/cache"
	"github.com/aaravmahajanofficial/stock-manager/internal/config"
	"github.com/aaravmahajanofficial/stock-manager/internal/models"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (cache.Cache, redismock.ClientMock, *config.CacheConfig) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	cfg := &config.CacheConfig{
		DefaultTTL:   10 * time.Minute,
		DashboardTTL: 30 * time.Second,
	}

	return cache.NewRedisCache(client, cfg), mock, cfg
}

func TestGet(t *testing.T) {
	ctx := t.Context()
	summary := models.DashboardSummary{LowStockProducts: 3, TotalProducts: 40, TotalCategories: 6}
	jsonData, err := json.Marshal(summary)
	require.NoError(t, err)

	t.Run("Success - Key Found", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)

		var result models.DashboardSummary

		mock.ExpectGet(cache.DashboardSummaryKey).SetVal(string(jsonData))

		// Act
		found, err := redisCache.Get(ctx, cache.DashboardSummaryKey, &result)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, int64(3), result.LowStockProducts)
		assert.Equal(t, int64(40), result.TotalProducts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Cache Miss", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)

		var result models.DashboardSummary

		mock.ExpectGet(cache.DashboardSummaryKey).SetErr(redis.Nil)

		// Act
		found, err := redisCache.Get(ctx, cache.DashboardSummaryKey, &result)

		// Assert
		require.NoError(t, err, "a miss is not an error")
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)
		expectedErr := errors.New("redis connection error")

		var result models.DashboardSummary

		mock.ExpectGet(cache.DashboardSummaryKey).SetErr(expectedErr)

		// Act
		found, err := redisCache.Get(ctx, cache.DashboardSummaryKey, &result)

		// Assert
		require.Error(t, err)
		assert.False(t, found)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Unmarshal Error", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)

		var result models.DashboardSummary

		mock.ExpectGet(cache.DashboardSummaryKey).SetVal(`{"totalProducts":"many"}`)

		// Act
		found, err := redisCache.Get(ctx, cache.DashboardSummaryKey, &result)

		// Assert
		require.Error(t, err)
		assert.False(t, found)
		assert.Contains(t, err.Error(), "failed to unmarshal cache data for key "+cache.DashboardSummaryKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSet(t *testing.T) {
	ctx := t.Context()
	tree := []*models.Category{{Name: "Beverages"}}
	jsonData, err := json.Marshal(tree)
	require.NoError(t, err)

	t.Run("Success - With Specific TTL", func(t *testing.T) {
		// Arrange
		redisCache, mock, cfg := setup(t)

		mock.ExpectSet(cache.CategoryTreeKey, jsonData, cfg.DashboardTTL).SetVal("OK")

		// Act
		err := redisCache.Set(ctx, cache.CategoryTreeKey, tree, cfg.DashboardTTL)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Falls Back To Default TTL", func(t *testing.T) {
		// Arrange
		redisCache, mock, cfg := setup(t)

		mock.ExpectSet(cache.CategoryTreeKey, jsonData, cfg.DefaultTTL).SetVal("OK")

		// Act
		err := redisCache.Set(ctx, cache.CategoryTreeKey, tree, 0)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Marshal Error", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)

		// Act
		err := redisCache.Set(ctx, cache.CategoryTreeKey, make(chan int), time.Minute)

		// Assert
		require.Error(t, err)

		var jsonErr *json.UnsupportedTypeError

		assert.ErrorAs(t, err, &jsonErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)
		expectedErr := errors.New("redis SET failed")

		mock.ExpectSet(cache.CategoryTreeKey, jsonData, time.Minute).SetErr(expectedErr)

		// Act
		err := redisCache.Set(ctx, cache.CategoryTreeKey, tree, time.Minute)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDelete(t *testing.T) {
	ctx := t.Context()
	productKey := cache.Key(cache.ProductKeyPrefix, "0b6b2bb4-4a43-4a39-9e2b-6e2b1d5c7f10")

	t.Run("Success - Several Keys", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)

		mock.ExpectDel(productKey, cache.DashboardSummaryKey).SetVal(2)

		// Act
		err := redisCache.Delete(ctx, productKey, cache.DashboardSummaryKey)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - No Keys Is A No-op", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)

		// Act
		err := redisCache.Delete(ctx)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)
		expectedErr := errors.New("redis DEL failed")

		mock.ExpectDel(productKey).SetErr(expectedErr)

		// Act
		err := redisCache.Delete(ctx, productKey)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoopCache(t *testing.T) {
	c := cache.NewNoopCache()

	var out models.DashboardSummary

	found, err := c.Get(t.Context(), cache.DashboardSummaryKey, &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Set(t.Context(), cache.DashboardSummaryKey, out, time.Minute))
	assert.NoError(t, c.Delete(t.Context(), cache.DashboardSummaryKey))
	assert.NoError(t, c.Close())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "product:abc", cache.Key(cache.ProductKeyPrefix, "abc"))
	assert.Equal(t, "prefix:", cache.Key("prefix", ""))
}
