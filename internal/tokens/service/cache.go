package service

import (
	"context"
	"sync"
	"time"

	"github.com/aussiebroadwan/tokensmith/internal/tokens/domain"
	"golang.org/x/sync/singleflight"
)

// ConfigSource loads the crypto policy of a client.
type ConfigSource interface {
	LoadConfig(ctx context.Context, clientID string) (domain.ClientCryptoConfig, error)
}

type cacheEntry struct {
	cfg     domain.ClientCryptoConfig
	expires time.Time
}

// ConfigCache keeps opened client policies in memory for TTL. Concurrent
// misses for the same client share one load. Failed loads are not cached.
type ConfigCache struct {
	source ConfigSource
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
	epoch   uint64             // bumped by Invalidate and Clear
	sf      singleflight.Group // prevents thundering herd
}

// NewConfigCache wraps source. A ttl of zero or less disables caching but
// keeps load de-duplication.
func NewConfigCache(source ConfigSource, ttl time.Duration) *ConfigCache {
	return &ConfigCache{
		source:  source,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// SetClock replaces the time source. Intended for tests.
func (c *ConfigCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// LoadConfig returns the cached policy for clientID, loading it on a miss.
func (c *ConfigCache) LoadConfig(ctx context.Context, clientID string) (domain.ClientCryptoConfig, error) {
	c.mu.RLock()
	e, ok := c.entries[clientID]
	now := c.now()
	c.mu.RUnlock()
	if ok && now.Before(e.expires) {
		return e.cfg, nil
	}

	// the shared load outlives any one caller; a cancelled caller just stops
	// waiting for it
	ch := c.sf.DoChan(clientID, func() (any, error) {
		c.mu.RLock()
		epoch := c.epoch
		c.mu.RUnlock()

		cfg, err := c.source.LoadConfig(context.WithoutCancel(ctx), clientID)
		if err != nil {
			return nil, err
		}
		if c.ttl > 0 {
			c.mu.Lock()
			// a load that raced an invalidation may be stale; serve it once
			if c.epoch == epoch {
				c.entries[clientID] = cacheEntry{cfg: cfg, expires: c.now().Add(c.ttl)}
			}
			c.mu.Unlock()
		}
		return cfg, nil
	})

	select {
	case <-ctx.Done():
		return domain.ClientCryptoConfig{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.ClientCryptoConfig{}, res.Err
		}
		return res.Val.(domain.ClientCryptoConfig), nil
	}
}

// Invalidate drops clientID so the next read loads it again.
func (c *ConfigCache) Invalidate(clientID string) {
	c.sf.Forget(clientID)
	c.mu.Lock()
	c.epoch++
	delete(c.entries, clientID)
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *ConfigCache) Clear() {
	c.mu.Lock()
	c.epoch++
	clear(c.entries)
	c.mu.Unlock()
}

// PurgeExpired removes stale entries and reports how many were dropped.
func (c *ConfigCache) PurgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for id, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, id)
			n++
		}
	}
	return n
}

// Len returns the number of cached entries, stale ones included.
func (c *ConfigCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
