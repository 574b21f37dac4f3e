package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestGetMissing(t *testing.T) {
	c := New[string, string]()

	v, ok := c.Get("nope")
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSetThenGet(t *testing.T) {
	c := New[string, []byte]()
	c.Set("k", []byte("body"), time.Minute)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("body"), v)
}

func TestExpiry(t *testing.T) {
	clk := newFakeClock()
	c := NewWithClock[string, string](clk.Now)

	c.Set("k", "v", 30*time.Minute)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	// One nanosecond short of the deadline the entry is still alive.
	clk.Advance(30*time.Minute - time.Nanosecond)
	_, ok = c.Get("k")
	assert.True(t, ok)

	// At the deadline the entry is gone, without any explicit removal.
	clk.Advance(time.Nanosecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry should be purged on read")

	// An observed-expired entry never comes back, even if the clock
	// misbehaves.
	clk.Advance(-time.Hour)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestSetReplacesEntryAndTTL(t *testing.T) {
	clk := newFakeClock()
	c := NewWithClock[string, string](clk.Now)

	c.Set("k", "old", time.Minute)
	c.Set("k", "new", time.Hour)

	// Past the first TTL the replacement is still served: the old expiry
	// has no effect once overwritten.
	clk.Advance(30 * time.Minute)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestIndependentExpiryPerKey(t *testing.T) {
	clk := newFakeClock()
	c := NewWithClock[string, string](clk.Now)

	c.Set("short", "a", time.Minute)
	c.Set("long", "b", time.Hour)

	clk.Advance(2 * time.Minute)

	_, ok := c.Get("short")
	assert.False(t, ok)
	v, ok := c.Get("long")
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestConcurrentAccess(t *testing.T) {
	c := New[string, int]()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", n%4)
			for j := 0; j < 200; j++ {
				c.Set(key, j, time.Minute)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
}
