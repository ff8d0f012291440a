package main

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestCache_GetSetExpire(t *testing.T) {
	now := time.Now()
	c := newGuestCache(30 * time.Second)
	c.now = func() time.Time { return now }

	_, found := c.get("key")
	assert.False(t, found)

	c.set("key", "value", c.currentGeneration())
	v, found := c.get("key")
	assert.True(t, found)
	assert.Equal(t, "value", v)

	now = now.Add(30 * time.Second)
	_, found = c.get("key")
	assert.False(t, found, "entry expires at the TTL")
}

func TestGuestCache_ClearAll(t *testing.T) {
	c := newGuestCache(time.Minute)
	c.set(cacheKeyStatus, 1, c.currentGeneration())
	c.set(cacheKeyUsers, 2, c.currentGeneration())

	c.clearAll()
	_, found := c.get(cacheKeyStatus)
	assert.False(t, found)
	_, found = c.get(cacheKeyUsers)
	assert.False(t, found)
}

func TestGuestCache_StaleGenerationIsDropped(t *testing.T) {
	c := newGuestCache(time.Minute)
	gen := c.currentGeneration()
	c.clearAll()

	c.set("key", "old", gen)
	_, found := c.get("key")
	assert.False(t, found)
}

func TestGuestCache_ZeroTTLDisablesCaching(t *testing.T) {
	c := newGuestCache(0)
	calls := 0
	load := func(context.Context) (interface{}, error) {
		calls++
		return calls, nil
	}

	for i := 0; i < 3; i++ {
		_, err := c.getOrLoad(context.Background(), "key", load)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestGuestCache_GetOrLoad(t *testing.T) {
	c := newGuestCache(time.Minute)

	t.Run("Errors are returned and not cached", func(t *testing.T) {
		boom := errors.New("router down")
		_, err := c.getOrLoad(context.Background(), "key", func(context.Context) (interface{}, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
		_, found := c.get("key")
		assert.False(t, found)
	})

	t.Run("Concurrent loads share one call", func(t *testing.T) {
		var calls int32
		release := make(chan struct{})
		load := func(context.Context) (interface{}, error) {
			atomic.AddInt32(&calls, 1)
			<-release
			return "fresh", nil
		}

		var wg sync.WaitGroup
		results := make([]interface{}, 5)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				v, err := c.getOrLoad(context.Background(), "shared", load)
				assert.NoError(t, err)
				results[i] = v
			}(i)
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		for _, v := range results {
			assert.Equal(t, "fresh", v)
		}
	})

	t.Run("Load racing a clear is not stored", func(t *testing.T) {
		_, err := c.getOrLoad(context.Background(), cacheKeyStatus, func(context.Context) (interface{}, error) {
			c.clearAll()
			return "before toggle", nil
		})
		require.NoError(t, err)
		_, found := c.get(cacheKeyStatus)
		assert.False(t, found)
	})

	t.Run("Cancelled first caller does not fail the others", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		var loadErr error
		load := func(ctx context.Context) (interface{}, error) {
			close(started)
			<-release
			loadErr = ctx.Err()
			return "fresh", nil
		}

		firstCtx, cancelFirst := context.WithCancel(context.Background())
		firstDone := make(chan error, 1)
		go func() {
			_, err := c.getOrLoad(firstCtx, "detached", load)
			firstDone <- err
		}()
		<-started

		secondDone := make(chan interface{}, 1)
		go func() {
			v, err := c.getOrLoad(context.Background(), "detached", load)
			assert.NoError(t, err)
			secondDone <- v
		}()
		time.Sleep(20 * time.Millisecond)

		cancelFirst()
		assert.ErrorIs(t, <-firstDone, context.Canceled)

		close(release)
		assert.Equal(t, "fresh", <-secondDone)
		assert.NoError(t, loadErr, "the shared load keeps running after the first caller leaves")

		v, found := c.get("detached")
		assert.True(t, found)
		assert.Equal(t, "fresh", v)
	})
}
