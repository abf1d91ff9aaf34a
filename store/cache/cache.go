// Package cache provides a small in-memory TTL cache used by the store.
package cache

import (
	"context"
	"sync"
	"time"
)

// Config holds the cache configuration.
type Config struct {
	// DefaultTTL is the lifetime of entries set without an explicit TTL.
	DefaultTTL time.Duration
	// CleanupInterval is how often expired entries are purged. Zero disables the janitor.
	CleanupInterval time.Duration
	// MaxItems bounds the number of entries; the entry closest to expiry is evicted first.
	MaxItems int
	// OnEviction is called when an entry is removed because of capacity or expiry.
	OnEviction func(key string, value any)
}

type item struct {
	value     any
	expiresAt time.Time
}

// Cache is a concurrency-safe TTL cache.
type Cache struct {
	config Config
	mu     sync.RWMutex
	items  map[string]*item

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates a cache and starts its cleanup goroutine.
func New(config Config) *Cache {
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 10 * time.Minute
	}
	if config.MaxItems <= 0 {
		config.MaxItems = 1000
	}

	c := &Cache{
		config: config,
		items:  make(map[string]*item),
		stop:   make(chan struct{}),
	}
	if config.CleanupInterval > 0 {
		go c.janitor(config.CleanupInterval)
	}
	return c
}

// Set stores value with the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	c.SetWithTTL(ctx, key, value, c.config.DefaultTTL)
}

// SetWithTTL stores value with the given TTL.
func (c *Cache) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.config.DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.config.MaxItems {
		c.evictOne()
	}
	c.items[key] = &item{value: value, expiresAt: time.Now().Add(ttl)}
}

// Get returns the value and whether it was present and not expired.
func (c *Cache) Get(_ context.Context, key string) (any, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(it.expiresAt) {
		c.mu.Lock()
		if current, ok := c.items[key]; ok && current == it {
			c.remove(key, current)
		}
		c.mu.Unlock()
		return nil, false
	}
	return it.value, true
}

// Delete removes key.
func (c *Cache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes every entry.
func (c *Cache) Clear(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*item)
}

// Size returns the number of stored entries, expired ones included until purged.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *Cache) deleteExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, it := range c.items {
		if now.After(it.expiresAt) {
			c.remove(key, it)
		}
	}
}

// evictOne drops the entry closest to expiry. Caller holds the lock.
func (c *Cache) evictOne() {
	var (
		oldestKey string
		oldest    *item
	)
	for key, it := range c.items {
		if oldest == nil || it.expiresAt.Before(oldest.expiresAt) {
			oldestKey, oldest = key, it
		}
	}
	if oldest != nil {
		c.remove(oldestKey, oldest)
	}
}

func (c *Cache) remove(key string, it *item) {
	delete(c.items, key)
	if c.config.OnEviction != nil {
		c.config.OnEviction(key, it.value)
	}
}
