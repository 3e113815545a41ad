// Package cache holds rendered catalog output so repeated requests for the
// same view skip the renderer.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is a bounded, expiring, concurrency-safe map from string keys to
// values of type V.
type Cache[V any] struct {
	lru    *expirable.LRU[string, V]
	hits   atomic.Int64
	misses atomic.Int64
}

// Stats is a point-in-time view of cache usage.
type Stats struct {
	Entries int     `json:"entries"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// New creates a cache holding at most maxItems entries, each expiring ttl
// after insertion. A ttl of zero keeps entries until they are evicted.
func New[V any](maxItems int, ttl time.Duration) *Cache[V] {
	if maxItems <= 0 {
		maxItems = 1
	}
	return &Cache[V]{lru: expirable.NewLRU[string, V](maxItems, nil, ttl)}
}

// Get returns the value for key and whether it was present.
func (c *Cache[V]) Get(key string) (V, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Set stores value under key.
func (c *Cache[V]) Set(key string, value V) {
	c.lru.Add(key, value)
}

// GetOrCompute returns the cached value for key, calling compute and caching
// its result on a miss. Errors are returned without caching.
func (c *Cache[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}

// Remove deletes key.
func (c *Cache[V]) Remove(key string) {
	c.lru.Remove(key)
}

// Purge deletes every entry and resets the counters.
func (c *Cache[V]) Purge() {
	c.lru.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Len returns the number of live entries.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

// Stats returns current usage counters.
func (c *Cache[V]) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	s := Stats{Entries: c.lru.Len(), Hits: hits, Misses: misses}
	if total := hits + misses; total > 0 {
		s.HitRate = float64(hits) / float64(total)
	}
	return s
}
