package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/stock-manager/internal/api/middleware"
	"github.com/aaravmahajanofficial/stock-manager/internal/cache"
	"github.com/google/uuid"
)

// Cache failures never fail a request; they are logged and the store is used instead.

func cacheGet(ctx context.Context, c cache.Cache, key string, dest any) bool {
	found, err := c.Get(ctx, key, dest)
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("Cache read failed", slog.String("key", key), slog.Any("error", err))
		return false
	}

	return found
}

func cacheSet(ctx context.Context, c cache.Cache, key string, value any, ttl time.Duration) {
	if err := c.Set(ctx, key, value, ttl); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}

func invalidate(ctx context.Context, c cache.Cache, keys ...string) {
	if err := c.Delete(ctx, keys...); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Cache invalidation failed", slog.Any("keys", keys), slog.Any("error", err))
	}
}

func productKey(id uuid.UUID) string {
	return cache.Key(cache.ProductKeyPrefix, id.String())
}
