package cache

import (
	"sync"
	"time"

	"bilingual-chat-demo/backend/pkg/config"
)

type entry struct {
	value     interface{}
	expiresAt int64
}

func (e entry) expired() bool {
	return e.expiresAt > 0 && time.Now().UnixNano() > e.expiresAt
}

// Cache is a small thread-safe TTL cache. It backs short-lived lookups such
// as the translator's supported-language listing.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	maxEntries int
}

// NewCache builds a cache from the Cache section of the application config.
func NewCache() *Cache {
	cfg := config.Get()

	c := &Cache{
		entries:    make(map[string]entry),
		defaultTTL: cfg.Cache.TTL,
		maxEntries: cfg.Cache.MaxSize,
	}

	if cfg.Cache.PurgeWindow > 0 {
		go c.purgeLoop(cfg.Cache.PurgeWindow)
	}

	return c
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value under key. A non-positive ttl means no expiry.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).UnixNano()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOne()
	}

	c.entries[key] = entry{value: value, expiresAt: expiresAt}
}

// Get returns the value for key, or false when absent or expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, found := c.entries[key]
	if !found || e.expired() {
		return nil, false
	}
	return e.value, true
}

// Delete removes key if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// evictOne drops the entry closest to expiry. Caller holds the lock.
func (c *Cache) evictOne() {
	var victim string
	var earliest int64 = -1
	for k, e := range c.entries {
		if earliest < 0 || e.expiresAt < earliest {
			victim = k
			earliest = e.expiresAt
		}
	}
	if victim != "" {
		delete(c.entries, victim)
	}
}

func (c *Cache) purgeLoop(window time.Duration) {
	ticker := time.NewTicker(window)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now().UnixNano()
		c.mu.Lock()
		for k, e := range c.entries {
			if e.expiresAt > 0 && now > e.expiresAt {
				delete(c.entries, k)
			}
		}
		c.mu.Unlock()
	}
}
