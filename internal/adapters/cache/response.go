// Package cache provides the in-process response cache and the on-disk manifest cache.
package cache

import (
	"sync"
	"time"

	"github.com/fractary/forge/internal/core/ports"
	gocache "github.com/patrickmn/go-cache"
)

var _ ports.ResponseCache = (*ResponseCache)(nil)

// ResponseCache implements ports.ResponseCache. Expiry is lazy: entries are dropped when
// read after their deadline or by an explicit Cleanup, never by a background sweeper.
type ResponseCache struct {
	mu         sync.Mutex
	items      *gocache.Cache
	defaultTTL time.Duration
	maxSize    int
}

// NewResponseCache creates a cache. ttl applies to Set calls without their own TTL;
// maxSize bounds the number of entries, zero meaning unbounded.
func NewResponseCache(ttl time.Duration, maxSize int) *ResponseCache {
	return &ResponseCache{
		// A zero cleanup interval disables go-cache's janitor goroutine.
		items:      gocache.New(gocache.NoExpiration, 0),
		defaultTTL: ttl,
		maxSize:    maxSize,
	}
}

// Get returns the value stored under key. Expired entries are deleted and reported as a miss.
func (c *ResponseCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.items.Get(key)
	if !ok {
		c.items.Delete(key)
		return nil, false
	}
	return v, true
}

// Set stores value under key until ttl elapses. A non-positive ttl selects the default.
func (c *ResponseCache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize > 0 {
		if _, exists := c.items.Get(key); !exists && c.items.ItemCount() >= c.maxSize {
			c.evict()
		}
	}
	c.items.Set(key, value, ttl)
}

// evict frees one slot: expired entries go first, then the entry closest to expiry.
func (c *ResponseCache) evict() {
	c.items.DeleteExpired()
	if c.items.ItemCount() < c.maxSize {
		return
	}

	var victim string
	var earliest int64
	for k, item := range c.items.Items() {
		if victim == "" || (item.Expiration != 0 && (earliest == 0 || item.Expiration < earliest)) {
			victim, earliest = k, item.Expiration
		}
	}
	c.items.Delete(victim)
}

// Delete removes key.
func (c *ResponseCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.Delete(key)
}

// Cleanup removes every expired entry and returns how many were dropped.
func (c *ResponseCache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.items.ItemCount()
	c.items.DeleteExpired()
	return before - c.items.ItemCount()
}

// Len returns the number of stored entries, expired ones included.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.ItemCount()
}
