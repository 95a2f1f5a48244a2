// internal/moderation/price/cache.go
package price

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"listing-moderation/internal/common/database"
	"listing-moderation/internal/common/logger"
	"listing-moderation/internal/common/metrics"
)

// EstimateCache is an optional read-through cache of predicted prices keyed
// by the estimator payload. A cache hit replays the exact price the
// estimator returned for an identical payload, so the resulting score is
// unchanged. Cache failures degrade silently to a direct estimator call.
type EstimateCache struct {
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewEstimateCache(redis *database.RedisClient, ttl time.Duration, log logger.Logger) *EstimateCache {
	return &EstimateCache{
		redis:  redis,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "estimate-cache"}),
	}
}

// Key derives a stable cache key from the full estimator payload.
func Key(req *EstimateRequest) string {
	raw, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return "estimate:" + hex.EncodeToString(sum[:])
}

// Get returns the cached predicted price for the payload, if any.
func (c *EstimateCache) Get(ctx context.Context, key string) (float64, bool) {
	if c == nil || key == "" {
		return 0, false
	}

	raw, err := c.redis.Get(ctx, key)
	if err != nil {
		metrics.EstimateCacheRequestsTotal.WithLabelValues("miss").Inc()
		return 0, false
	}

	predicted, err := strconv.ParseFloat(raw, 64)
	if err != nil || predicted <= 0 {
		metrics.EstimateCacheRequestsTotal.WithLabelValues("corrupt").Inc()
		c.logger.Warn("dropping unparsable cache entry", map[string]interface{}{
			"key": key,
		})
		return 0, false
	}

	metrics.EstimateCacheRequestsTotal.WithLabelValues("hit").Inc()
	return predicted, true
}

// Set stores a predicted price. Write failures are logged and ignored.
func (c *EstimateCache) Set(ctx context.Context, key string, predicted float64) {
	if c == nil || key == "" {
		return
	}

	value := strconv.FormatFloat(predicted, 'f', -1, 64)
	if err := c.redis.Set(ctx, key, value, c.ttl); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
