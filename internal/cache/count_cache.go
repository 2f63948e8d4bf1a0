// Package cache keeps exact page totals in Redis so repeated broad searches
// skip the count query.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prospecta/company-search/internal/logging"
	"github.com/prospecta/company-search/internal/observability"
	"github.com/prospecta/company-search/internal/redisclient"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "company_search:count:"

// CountCache is a Redis-backed store of exact totals by query key
type CountCache struct {
	client *redisclient.Client
	ttl    time.Duration
	logger *logging.SafeLogger
}

// NewCountCache creates a new count cache whose entries expire after ttl
func NewCountCache(client *redisclient.Client, ttl time.Duration, logger *logging.SafeLogger) *CountCache {
	return &CountCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Key derives the Redis key of a query key
func Key(queryKey string) string {
	sum := sha256.Sum256([]byte(queryKey))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached total of queryKey
func (c *CountCache) Get(ctx context.Context, queryKey string) (int64, bool, error) {
	raw, err := c.client.Get(ctx, Key(queryKey)).Result()
	if errors.Is(err, redis.Nil) {
		observability.CacheHits.WithLabelValues("miss").Inc()
		return 0, false, nil
	}
	if err != nil {
		observability.CacheHits.WithLabelValues("error").Inc()
		return 0, false, fmt.Errorf("failed to read cached count: %w", err)
	}

	total, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || total < 0 {
		observability.CacheHits.WithLabelValues("error").Inc()
		c.logger.Warn("dropping malformed cached count", zap.String("value", raw))
		_ = c.client.Del(ctx, Key(queryKey)).Err()
		return 0, false, nil
	}

	observability.CacheHits.WithLabelValues("hit").Inc()
	return total, true, nil
}

// Set stores the exact total of queryKey
func (c *CountCache) Set(ctx context.Context, queryKey string, total int64) error {
	if err := c.client.Set(ctx, Key(queryKey), strconv.FormatInt(total, 10), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache count: %w", err)
	}
	return nil
}
