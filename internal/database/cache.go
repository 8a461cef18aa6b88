package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/vendora/backend/internal/models"
	"github.com/vendora/backend/pkg/utils"
)

// Cache key formats
const (
	searchResponseKey = "search:ai:%s"
	systemHealthKey   = "system:health"
)

// ResponseCache memoizes full search responses behind a hash of the
// normalized query text. It is best-effort: read failures are misses and
// write failures are logged and swallowed.
type ResponseCache struct {
	client *redis.Client
	logger *logrus.Logger
	ttl    time.Duration
}

func NewResponseCache(client *redis.Client, logger *logrus.Logger, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResponseCache{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// Get loads the cached response for a query into result. Returns false on
// miss, expiry, or any read/decode failure.
func (c *ResponseCache) Get(ctx context.Context, query string, result interface{}) bool {
	key := fmt.Sprintf(searchResponseKey, utils.QueryHash(query))

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Warn("Search cache read failed, treating as miss")
		}
		return false
	}

	if err := json.Unmarshal(data, result); err != nil {
		c.logger.WithError(err).Warn("Search cache entry undecodable, treating as miss")
		return false
	}

	return true
}

// Put stores the response for a query, overwriting any previous entry for
// the same normalized query.
func (c *ResponseCache) Put(ctx context.Context, query string, response interface{}) {
	key := fmt.Sprintf(searchResponseKey, utils.QueryHash(query))

	data, err := json.Marshal(response)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to marshal search response for cache")
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("Failed to cache search response")
	}
}

// Invalidate removes the cached response for a query.
func (c *ResponseCache) Invalidate(ctx context.Context, query string) error {
	key := fmt.Sprintf(searchResponseKey, utils.QueryHash(query))
	return c.client.Del(ctx, key).Err()
}

// CacheSystemHealth caches system health status for the health endpoints.
func (c *ResponseCache) CacheSystemHealth(ctx context.Context, health []models.SystemHealth, expiration time.Duration) error {
	data, err := json.Marshal(health)
	if err != nil {
		return fmt.Errorf("failed to marshal system health: %w", err)
	}

	return c.client.Set(ctx, systemHealthKey, data, expiration).Err()
}

// GetCachedSystemHealth retrieves cached system health
func (c *ResponseCache) GetCachedSystemHealth(ctx context.Context) ([]models.SystemHealth, error) {
	data, err := c.client.Get(ctx, systemHealthKey).Result()
	if err != nil {
		return nil, err
	}

	var health []models.SystemHealth
	err = json.Unmarshal([]byte(data), &health)
	return health, err
}
