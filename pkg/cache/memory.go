package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache keeps entries in process memory. It is safe for concurrent
// use. Once maxEntries is reached, Set evicts the entry closest to expiry
// (entries without ttl count as expiring last, oldest first).
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	maxEntries int
	seq        uint64
	now        func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
	seq       uint64
}

// NewMemoryCache creates an in-memory cache holding at most maxEntries
// entries; zero or less means unbounded.
func NewMemoryCache(maxEntries int) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set stores a copy of data.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := memoryEntry{data: append([]byte(nil), data...)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	e.seq = c.seq
	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}
	c.entries[key] = e
	return nil
}

func (c *MemoryCache) evictLocked() {
	var victim string
	var best memoryEntry
	first := true
	for k, e := range c.entries {
		if first || evictsBefore(e, best) {
			victim, best, first = k, e, false
		}
	}
	delete(c.entries, victim)
}

func evictsBefore(a, b memoryEntry) bool {
	switch {
	case a.expiresAt.IsZero() && b.expiresAt.IsZero():
		return a.seq < b.seq
	case a.expiresAt.IsZero():
		return false
	case b.expiresAt.IsZero():
		return true
	default:
		return a.expiresAt.Before(b.expiresAt)
	}
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, including expired ones not
// yet collected.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close drops all entries.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
