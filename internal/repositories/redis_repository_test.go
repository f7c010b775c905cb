package repository_test

import (
	"errors"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/stock-manager/internal/config"
	repository "github.com/aaravmahajanofficial/stock-manager/internal/repositories"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitAllow(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cfg := config.RateConfig{MaxAttempts: 3, WindowSize: time.Minute}
	key := repository.RateLimitKey("10.0.0.1")
	windowStart := strconv.FormatInt(now.UnixMilli()-time.Minute.Milliseconds(), 10)
	member := strconv.FormatInt(now.UnixNano(), 10)

	expectWindow := func(mock redismock.ClientMock, count int64) {
		mock.ExpectZRemRangeByScore(key, "0", windowStart).SetVal(0)
		mock.ExpectZAdd(key, redis.Z{Score: float64(now.UnixMilli()), Member: member}).SetVal(1)
		mock.ExpectZCard(key).SetVal(count)
		mock.ExpectExpire(key, time.Minute).SetVal(true)
	}

	t.Run("Success - Within Budget", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		limiter := repository.NewRateLimitRepoWithClock(client, cfg, func() time.Time { return now })
		expectWindow(mock, 2)

		// Act
		allowed, remaining, retryAfter, err := limiter.Allow(ctx, "10.0.0.1")

		// Assert
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 1, remaining)
		assert.Zero(t, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Last Allowed Attempt", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		limiter := repository.NewRateLimitRepoWithClock(client, cfg, func() time.Time { return now })
		expectWindow(mock, 3)

		// Act
		allowed, remaining, _, err := limiter.Allow(ctx, "10.0.0.1")

		// Assert
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Zero(t, remaining)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Over Budget Reports Retry", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		limiter := repository.NewRateLimitRepoWithClock(client, cfg, func() time.Time { return now })
		expectWindow(mock, 4)
		oldest := now.Add(-20 * time.Second)
		mock.ExpectZRangeArgsWithScores(redis.ZRangeArgs{Key: key, Start: 0, Stop: 0}).
			SetVal([]redis.Z{{Score: float64(oldest.UnixMilli()), Member: "x"}})

		// Act
		allowed, remaining, retryAfter, err := limiter.Allow(ctx, "10.0.0.1")

		// Assert
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Zero(t, remaining)
		assert.Equal(t, 40, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Pipeline Error", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		limiter := repository.NewRateLimitRepoWithClock(client, cfg, func() time.Time { return now })
		mock.ExpectZRemRangeByScore(key, "0", windowStart).SetErr(errors.New("redis down"))

		// Act
		allowed, _, _, err := limiter.Allow(ctx, "10.0.0.1")

		// Assert
		require.Error(t, err)
		assert.False(t, allowed)
	})
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	// Arrange
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	cfg := &config.Config{RedisConnect: config.RedisConnect{Host: "127.0.0.1", Port: port}}

	// Act
	client, err := repository.NewRedisClient(cfg)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
	assert.Nil(t, client)
}
