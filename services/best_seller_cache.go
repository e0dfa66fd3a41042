package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"checkout-service/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	bestSellerListPrefix = "bestsellers:v:"
	bestSellerVersionKey = "bestsellers:version"
	bestSellerDefaultTTL = 5 * time.Minute
	bestSellerSetTimeout = 5 * time.Second
)

// BestSellerCache is a versioned Redis read cache for the best-selling
// listing. Settled payments bump the version, so stale lists simply stop
// being found instead of being rewritten in place.
type BestSellerCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewBestSellerCache(client *redis.Client, logger *zap.Logger) *BestSellerCache {
	return &BestSellerCache{redis: client, ttl: bestSellerDefaultTTL, logger: logger}
}

// Get retrieves a cached listing. A miss of any kind reports false.
func (c *BestSellerCache) Get(ctx context.Context, limit int) ([]models.BestSelling, bool) {
	version, err := c.redis.Get(ctx, bestSellerVersionKey).Int64()
	if err != nil {
		return nil, false
	}

	data, err := c.redis.Get(ctx, c.listKey(version, limit)).Result()
	if err != nil {
		return nil, false
	}

	var top []models.BestSelling
	if err := json.Unmarshal([]byte(data), &top); err != nil {
		c.logger.Warn("Failed to unmarshal cached best-seller list", zap.Error(err))
		return nil, false
	}
	return top, true
}

// SetAsync caches a listing in the background.
func (c *BestSellerCache) SetAsync(limit int, top []models.BestSelling) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), bestSellerSetTimeout)
		defer cancel()

		version, err := c.redis.Get(ctx, bestSellerVersionKey).Int64()
		if err != nil {
			if err != redis.Nil {
				return
			}
			version = 1
			if err := c.redis.Set(ctx, bestSellerVersionKey, version, 0).Err(); err != nil {
				return
			}
		}

		data, err := json.Marshal(top)
		if err != nil {
			c.logger.Warn("Failed to marshal best-seller list for cache", zap.Error(err))
			return
		}
		if err := c.redis.Set(ctx, c.listKey(version, limit), data, c.ttl).Err(); err != nil {
			c.logger.Warn("Failed to cache best-seller list", zap.Error(err))
		}
	}()
}

// Invalidate bumps the cache version after a settlement changed the
// counters.
func (c *BestSellerCache) Invalidate(ctx context.Context) error {
	return c.redis.Incr(ctx, bestSellerVersionKey).Err()
}

func (c *BestSellerCache) listKey(version int64, limit int) string {
	return fmt.Sprintf("%s%d:limit:%d", bestSellerListPrefix, version, limit)
}
