package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCacheMissReturnsNil(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10)

	got, err := c.Get(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err := c.Exists(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), -time.Second))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheOverwrite(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10)

	require.NoError(t, c.Set(ctx, "k", []byte("old"), time.Minute))
	require.NoError(t, c.Set(ctx, "k", []byte("new"), time.Minute))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting an absent key is not an error.
	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestMemoryCacheConcurrentGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(8)

	// Hammer the same small key set from readers, writers and deleters.
	// Interleaving a Get's LRU touch with a Delete must not detach a node
	// twice and corrupt the list; the race detector plus the post-check
	// below cover it.
	keys := []string{"k0", "k1", "k2", "k3"}
	for _, key := range keys {
		require.NoError(t, c.Set(ctx, key, []byte(key), time.Minute))
	}

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_, _ = c.Get(ctx, keys[i%len(keys)])
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_ = c.Delete(ctx, keys[i%len(keys)])
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := keys[i%len(keys)]
				_ = c.Set(ctx, key, []byte(key), time.Minute)
			}
		}()
	}
	wg.Wait()

	// The cache must still behave after the churn.
	require.NoError(t, c.Set(ctx, "after", []byte("after"), time.Minute))
	got, err := c.Get(ctx, "after")
	require.NoError(t, err)
	assert.Equal(t, []byte("after"), got)
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(3)

	for i := 0; i < 3; i++ {
		key := fmt.Sprintf("k%d", i)
		require.NoError(t, c.Set(ctx, key, []byte(key), time.Minute))
	}

	// Touch k0 so k1 becomes the least recently used entry.
	_, err := c.Get(ctx, "k0")
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "k3", []byte("k3"), time.Minute))

	ok, err := c.Exists(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok, "least recently used entry should be evicted")

	for _, key := range []string{"k0", "k2", "k3"} {
		ok, err := c.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok, key)
	}
}
