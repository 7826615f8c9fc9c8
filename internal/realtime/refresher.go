package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/agustinp/tradepulse/internal/contracts"
	"github.com/agustinp/tradepulse/pkg/logger"
)

// RefreshResult summarizes one refresh pass over the universe.
type RefreshResult struct {
	Updated   int       `json:"updated"`
	Failed    int       `json:"failed"`
	Total     int       `json:"total"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
}

// Refresher pulls current quotes for the whole universe into the
// price cache.
type Refresher struct {
	provider contracts.MarketDataProvider
	cache    *PriceCache
	symbols  []string
	logger   *logger.Logger

	mu   sync.RWMutex
	last *RefreshResult
}

// NewRefresher creates a price refresher over the given universe.
func NewRefresher(provider contracts.MarketDataProvider, cache *PriceCache, symbols []string, log *logger.Logger) *Refresher {
	return &Refresher{
		provider: provider,
		cache:    cache,
		symbols:  symbols,
		logger:   log.WithField("module", "price_refresh"),
	}
}

// Refresh fetches a quote per symbol sequentially; the provider's
// rate limit paces the pass. Individual failures are counted, not
// fatal.
func (r *Refresher) Refresh(ctx context.Context) (*RefreshResult, error) {
	result := &RefreshResult{Total: len(r.symbols), StartedAt: time.Now()}

	for _, symbol := range r.symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		quote, err := r.provider.FetchQuote(ctx, symbol)
		if err != nil {
			result.Failed++
			r.logger.WithError(err).WithField("symbol", symbol).Debug("Quote fetch failed")
			continue
		}
		if r.cache.Update(ctx, quote) {
			result.Updated++
		}
	}

	result.Duration = time.Since(result.StartedAt).String()
	r.mu.Lock()
	r.last = result
	r.mu.Unlock()

	r.logger.WithFields(map[string]interface{}{
		"updated": result.Updated,
		"failed":  result.Failed,
		"total":   result.Total,
	}).Info("Price refresh completed")
	return result, nil
}

// LastResult returns the outcome of the most recent refresh pass, or
// nil when none has run yet.
func (r *Refresher) LastResult() *RefreshResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}
