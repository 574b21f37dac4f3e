// Package cache provides an in-process TTL cache with lazy expiration.
package cache

import (
	"sync"
	"time"
)

// TTL maps keys to values that each carry their own absolute expiry.
// Expiry is checked lazily on Get; there is no capacity limit and no
// eviction beyond expiry. Safe for concurrent use.
type TTL[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]entry[V]
	now  func() time.Time
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// New returns an empty cache using the wall clock.
func New[K comparable, V any]() *TTL[K, V] {
	return NewWithClock[K, V](time.Now)
}

// NewWithClock returns an empty cache that reads time from now.
func NewWithClock[K comparable, V any](now func() time.Time) *TTL[K, V] {
	return &TTL[K, V]{data: make(map[K]entry[V]), now: now}
}

// Get returns the value for k if an entry exists and has not expired.
// An expired entry is removed on observation so it cannot be served later.
func (c *TTL[K, V]) Get(k K) (V, bool) {
	c.mu.RLock()
	e, ok := c.data[k]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		// Recheck under the write lock; a concurrent Set may have
		// replaced the entry with a fresh one.
		if cur, ok := c.data[k]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.data, k)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores v under k with expiry now+ttl, unconditionally replacing any
// existing entry.
func (c *TTL[K, V]) Set(k K, v V, ttl time.Duration) {
	exp := c.now().Add(ttl)
	c.mu.Lock()
	c.data[k] = entry[V]{value: v, expiresAt: exp}
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired entries included.
func (c *TTL[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
