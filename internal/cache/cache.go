package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Entry represents a cached item with expiration
type Entry[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// Cache provides TTL-based in-memory caching bounded to a fixed number of
// entries. When full, the least recently used entry is evicted.
type Cache[V any] struct {
	entries *lru.Cache[string, Entry[V]]
	ttl     time.Duration
}

var timeNow = time.Now

// New creates a new Cache holding at most size entries with the specified TTL
func New[V any](size int, ttl time.Duration) (*Cache[V], error) {
	entries, err := lru.New[string, Entry[V]](size)
	if err != nil {
		return nil, err
	}
	return &Cache[V]{
		entries: entries,
		ttl:     ttl,
	}, nil
}

// Get retrieves a value from the cache
// Returns the value and true if found and not expired, zero and false otherwise
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	entry, exists := c.entries.Get(key)
	if !exists {
		return zero, false
	}

	if timeNow().After(entry.ExpiresAt) {
		c.entries.Remove(key)
		return zero, false
	}

	return entry.Value, true
}

// Set stores a value in the cache with the default TTL
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value in the cache with a custom TTL
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.entries.Add(key, Entry[V]{
		Value:     value,
		ExpiresAt: timeNow().Add(ttl),
	})
}

// Delete removes a value from the cache
func (c *Cache[V]) Delete(key string) {
	c.entries.Remove(key)
}

// Cleanup removes expired entries from the cache and reports how many went
func (c *Cache[V]) Cleanup() int {
	now := timeNow()
	removed := 0
	for _, key := range c.entries.Keys() {
		entry, ok := c.entries.Peek(key)
		if ok && now.After(entry.ExpiresAt) {
			c.entries.Remove(key)
			removed++
		}
	}
	return removed
}

// Size returns the number of entries in the cache (including expired ones)
func (c *Cache[V]) Size() int {
	return c.entries.Len()
}
