package analysis

import (
	"context"
	"time"

	"github.com/agustinp/tradepulse/internal/contracts"
	"github.com/agustinp/tradepulse/pkg/logger"
	"github.com/agustinp/tradepulse/pkg/redis"
)

// RedisCache is a Redis-backed contracts.AnalysisCache. Freshness is
// enforced by the key TTL, so a stale entry simply expires away.
type RedisCache struct {
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewRedisCache creates a Redis-backed cache with the given freshness
// window.
func NewRedisCache(cache *redis.Cache, ttl time.Duration, log *logger.Logger) *RedisCache {
	return &RedisCache{
		cache:  cache,
		ttl:    ttl,
		logger: log.WithField("module", "analysis_cache"),
	}
}

// Get returns the cached result for key if Redis still holds it.
func (c *RedisCache) Get(ctx context.Context, key contracts.AnalysisKey) (*contracts.AnalysisResult, bool) {
	var result contracts.AnalysisResult
	found, err := c.cache.Get(ctx, redis.AnalysisKey(key.Symbol, key.StartDate, key.EndDate, key.ConfigHash), &result)
	if err != nil {
		c.logger.WithError(err).Warn("Analysis cache read failed")
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &result, true
}

// Put stores a result under its key for the freshness window.
func (c *RedisCache) Put(ctx context.Context, key contracts.AnalysisKey, result *contracts.AnalysisResult) error {
	return c.cache.Set(ctx, redis.AnalysisKey(key.Symbol, key.StartDate, key.EndDate, key.ConfigHash), result, c.ttl)
}

// Clear drops every cached analysis result, leaving other cached data
// untouched.
func (c *RedisCache) Clear(ctx context.Context) error {
	return c.cache.DeletePattern(ctx, "analysis:*")
}
