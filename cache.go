package main

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// guestCache keeps router reads for a short time and coalesces identical
// concurrent reads into one router call.
type guestCache struct {
	mu         sync.RWMutex           // Guards data and generation
	data       map[string]cachedEntry // Cached values keyed by cacheKey*
	timeout    time.Duration          // Age after which an entry is stale, 0 disables caching
	generation uint64                 // Bumped by clear so in-flight loads do not store stale data
	group      singleflight.Group
	now        func() time.Time
}

// cachedEntry holds a value and the time it was read from the router
type cachedEntry struct {
	value     interface{}
	timestamp time.Time
}

func newGuestCache(timeout time.Duration) *guestCache {
	return &guestCache{
		data:    make(map[string]cachedEntry),
		timeout: timeout,
		now:     time.Now,
	}
}

// get retrieves a value if it exists and hasn't expired
func (c *guestCache) get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cached, exists := c.data[key]
	if !exists || c.now().Sub(cached.timestamp) >= c.timeout {
		return nil, false
	}
	return cached.value, true
}

// set stores value unless the cache was cleared after gen was taken
func (c *guestCache) set(key string, value interface{}, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation || c.timeout <= 0 {
		return
	}
	c.data[key] = cachedEntry{value, c.now()}
}

// clearAll drops every entry. Loads started before the call will not be stored.
func (c *guestCache) clearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.data = make(map[string]cachedEntry)
	// Callers arriving from now on must not join a load that started earlier
	c.group.Forget(cacheKeyStatus)
	c.group.Forget(cacheKeyUsers)
}

func (c *guestCache) currentGeneration() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// getOrLoad returns the cached value for key or runs load once for all
// concurrent callers asking for the same key. Errors are never cached.
// The shared load does not inherit the cancellation of the caller that
// started it; each caller only stops waiting when its own ctx is done.
func (c *guestCache) getOrLoad(ctx context.Context, key string, load func(context.Context) (interface{}, error)) (interface{}, error) {
	if v, ok := c.get(key); ok {
		return v, nil
	}
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		gen := c.currentGeneration()
		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.set(key, v, gen)
		return v, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
