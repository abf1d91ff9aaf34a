package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_BasicOperations(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	t.Run("SetAndGet", func(t *testing.T) {
		c.Set(ctx, "key1", "value1")

		val, ok := c.Get(ctx, "key1")
		assert.True(t, ok)
		assert.Equal(t, "value1", val)
	})

	t.Run("GetNonExistent", func(t *testing.T) {
		val, ok := c.Get(ctx, "nonexistent")
		assert.False(t, ok)
		assert.Nil(t, val)
	})

	t.Run("Delete", func(t *testing.T) {
		c.Set(ctx, "key2", 2)
		c.Delete(ctx, "key2")
		_, ok := c.Get(ctx, "key2")
		assert.False(t, ok)
	})

	t.Run("Clear", func(t *testing.T) {
		c.Set(ctx, "key3", 3)
		c.Clear(ctx)
		assert.Equal(t, 0, c.Size())
	})
}

func TestCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.SetWithTTL(ctx, "expiring", "value", 20*time.Millisecond)
	_, ok := c.Get(ctx, "expiring")
	assert.True(t, ok)

	time.Sleep(40 * time.Millisecond)

	_, ok = c.Get(ctx, "expiring")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestCache_Eviction(t *testing.T) {
	ctx := context.Background()
	var evicted []string
	c := New(Config{
		DefaultTTL: time.Minute,
		MaxItems:   2,
		OnEviction: func(key string, _ any) { evicted = append(evicted, key) },
	})
	defer c.Close()

	c.SetWithTTL(ctx, "short", 1, time.Second)
	c.SetWithTTL(ctx, "long", 2, time.Hour)
	c.Set(ctx, "new", 3)

	assert.Equal(t, 2, c.Size())
	assert.Equal(t, []string{"short"}, evicted)
	_, ok := c.Get(ctx, "long")
	assert.True(t, ok)
}

func TestCache_CloseTwice(t *testing.T) {
	c := New(Config{CleanupInterval: time.Millisecond})
	c.Close()
	assert.NotPanics(t, c.Close)
}
