package api

import (
	"context"
	"sync"
	"time"
)

// ListingCache holds the rendered dashboard listing per user so repeat
// reads skip the store. Writes to a user's readings must invalidate
// that user's entry.
type ListingCache interface {
	Get(ctx context.Context, userID string) ([]byte, bool)
	Set(ctx context.Context, userID string, body []byte)
	Invalidate(ctx context.Context, userID string)
}

type memoryEntry struct {
	at   time.Time
	body []byte
}

type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, userID string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[userID]
	if !ok || time.Since(entry.at) > c.ttl {
		delete(c.entries, userID)
		return nil, false
	}
	return entry.body, true
}

func (c *MemoryCache) Set(_ context.Context, userID string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = memoryEntry{at: time.Now(), body: body}
}

func (c *MemoryCache) Invalidate(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}
