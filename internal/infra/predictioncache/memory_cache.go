package predictioncache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/ppgi-advisor/internal/domain/glycemic"
	"github.com/yanqian/ppgi-advisor/internal/domain/prediction"
)

type cacheEntry struct {
	result    glycemic.PredictionResult
	expiresAt time.Time
}

// MemoryCache keeps upstream results in process memory for tests/dev.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get implements prediction.Cache.
func (c *MemoryCache) Get(_ context.Context, key string) (glycemic.PredictionResult, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return glycemic.PredictionResult{}, false, nil
	}
	if !entry.expiresAt.IsZero() && entry.expiresAt.Before(c.now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return glycemic.PredictionResult{}, false, nil
	}
	return entry.result, true, nil
}

// Set stores the result; a non-positive ttl never expires.
func (c *MemoryCache) Set(_ context.Context, key string, result glycemic.PredictionResult, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.entries[key] = cacheEntry{result: result, expiresAt: exp}
	return nil
}

var _ prediction.Cache = (*MemoryCache)(nil)
