// Package realtime keeps a fast in-memory snapshot of current prices
// for the tracked universe, refreshed on a fixed interval.
package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/agustinp/tradepulse/internal/contracts"
	"github.com/agustinp/tradepulse/pkg/logger"
	"github.com/agustinp/tradepulse/pkg/redis"
)

// PriceCache holds the latest quote per symbol. Reads are served from
// memory; writes go through to Redis when it is enabled, so restarts
// and sibling processes see recent prices too.
type PriceCache struct {
	mu     sync.RWMutex
	quotes map[string]*contracts.Quote

	shared *redis.Cache
	logger *logger.Logger
}

// NewPriceCache creates a price cache. The shared cache may serve a
// disabled Redis client, in which case it degrades to memory only.
func NewPriceCache(shared *redis.Cache, log *logger.Logger) *PriceCache {
	return &PriceCache{
		quotes: make(map[string]*contracts.Quote),
		shared: shared,
		logger: log.WithField("module", "price_cache"),
	}
}

// Update stores a fresh quote. Stale updates (older than what the
// cache already holds) are dropped.
func (c *PriceCache) Update(ctx context.Context, quote *contracts.Quote) bool {
	c.mu.Lock()
	existing, ok := c.quotes[quote.Symbol]
	if ok && quote.FetchedAt.Before(existing.FetchedAt) {
		c.mu.Unlock()
		return false
	}
	c.quotes[quote.Symbol] = quote
	c.mu.Unlock()

	if err := c.shared.Set(ctx, redis.QuoteKey(quote.Symbol), quote, redis.TTLShort); err != nil {
		c.logger.WithError(err).WithField("symbol", quote.Symbol).Warn("Shared quote write failed")
	}
	return true
}

// Get returns the cached quote for a symbol, or nil when none is held.
func (c *PriceCache) Get(symbol string) *contracts.Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.quotes[symbol]
}

// Snapshot returns a copy of every cached quote.
func (c *PriceCache) Snapshot() map[string]*contracts.Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]*contracts.Quote, len(c.quotes))
	for symbol, quote := range c.quotes {
		out[symbol] = quote
	}
	return out
}

// Len returns how many symbols currently hold a quote.
func (c *PriceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.quotes)
}

// Age returns how old the cached quote for a symbol is, or false when
// the symbol is not cached.
func (c *PriceCache) Age(symbol string) (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	quote, ok := c.quotes[symbol]
	if !ok {
		return 0, false
	}
	return time.Since(quote.FetchedAt), true
}
