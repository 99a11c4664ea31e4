package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/atlas-transfers/service-pricing/internal/domain/geo"
	"github.com/atlas-transfers/service-pricing/internal/domain/pricing"
)

const defaultCacheTTL = 24 * time.Hour

// EstimateCache stores external distance estimates in Redis, keyed by the
// origin/destination pair. Only external results are cached — the fallback is
// cheaper to recompute than to fetch. Cache failures are logged and treated
// as misses; the cache must never make an estimate fail.
type EstimateCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewEstimateCache creates a cache with the given TTL (<=0 uses the default).
func NewEstimateCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *EstimateCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &EstimateCache{redis: client, ttl: ttl, logger: logger}
}

// Get returns a cached estimate for the pair, if present.
func (c *EstimateCache) Get(ctx context.Context, origin, destination geo.Point) (pricing.Estimate, bool) {
	val, err := c.redis.Get(ctx, cacheKey(origin, destination)).Result()
	if err == redis.Nil {
		return pricing.Estimate{}, false
	}
	if err != nil {
		c.logger.Warn("distance cache read failed", zap.Error(err))
		return pricing.Estimate{}, false
	}

	var est pricing.Estimate
	if err := json.Unmarshal([]byte(val), &est); err != nil {
		c.logger.Warn("distance cache entry malformed", zap.Error(err))
		return pricing.Estimate{}, false
	}
	return est, true
}

// Put stores an estimate for the pair. Non-external estimates are skipped.
func (c *EstimateCache) Put(ctx context.Context, origin, destination geo.Point, est pricing.Estimate) {
	if est.Source != pricing.SourceExternal {
		return
	}
	data, err := json.Marshal(est)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, cacheKey(origin, destination), data, c.ttl).Err(); err != nil {
		c.logger.Warn("distance cache write failed", zap.Error(err))
	}
}

// Coordinates are rounded to 5 decimals (~1m) so near-identical requests
// share an entry.
func cacheKey(origin, destination geo.Point) string {
	return fmt.Sprintf("distance:%.5f,%.5f:%.5f,%.5f", origin.Lat, origin.Lng, destination.Lat, destination.Lng)
}
