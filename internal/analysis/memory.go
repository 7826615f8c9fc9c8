package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/agustinp/tradepulse/internal/contracts"
)

type memoryEntry struct {
	result   *contracts.AnalysisResult
	storedAt time.Time
}

// MemoryCache is an in-process contracts.AnalysisCache, used when
// Redis is disabled. Entries older than the TTL are treated as misses
// and overwritten on the next Put.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates an in-process cache with the given freshness
// window.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached result for key if one exists and is still
// fresh.
func (c *MemoryCache) Get(_ context.Context, key contracts.AnalysisKey) (*contracts.AnalysisResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[keyString(key)]
	if !ok || c.now().Sub(entry.storedAt) > c.ttl {
		return nil, false
	}
	return entry.result, true
}

// Put stores a result, replacing any earlier entry for the same key.
func (c *MemoryCache) Put(_ context.Context, key contracts.AnalysisKey, result *contracts.AnalysisResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[keyString(key)] = memoryEntry{result: result, storedAt: c.now()}
	return nil
}

// Clear drops every cached entry.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]memoryEntry)
	return nil
}
