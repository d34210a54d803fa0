package blacklist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/grantscout/discovery/internal/circuitbreaker"
	"github.com/grantscout/discovery/internal/metrics"
)

const keyPrefix = "discovery:blacklist:"

// localTTL bounds the in-process front cache so blacklist mutations
// propagate across instances within minutes even without invalidation.
const localTTL = 5 * time.Minute

// Store is the primary source of truth for blacklist flags.
type Store interface {
	IsDomainBlacklisted(ctx context.Context, name string) (bool, error)
}

type localEntry struct {
	blacklisted bool
	expiresAt   time.Time
}

// Cache is a read-through domain blacklist cache: a small in-process front,
// Redis behind it, and the store as the source of truth. A Redis outage
// degrades to direct store lookups; it is never silently treated as
// "not blacklisted".
type Cache struct {
	redis  *circuitbreaker.RedisWrapper
	store  Store
	ttl    time.Duration
	logger *zap.Logger

	mu    sync.RWMutex
	local map[string]localEntry

	group singleflight.Group
	now   func() time.Time
}

// NewCache wires the cache. ttl governs the Redis entries (default 24 h).
func NewCache(redisWrapper *circuitbreaker.RedisWrapper, store Store, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cache{
		redis:  redisWrapper,
		store:  store,
		ttl:    ttl,
		logger: logger,
		local:  make(map[string]localEntry),
		now:    time.Now,
	}
}

// IsBlacklisted reports whether the domain is blacklisted. Concurrent checks
// of the same cold domain collapse into one store lookup.
func (c *Cache) IsBlacklisted(ctx context.Context, name string) (bool, error) {
	if v, ok := c.getLocal(name); ok {
		metrics.BlacklistCacheHits.Inc()
		return v, nil
	}

	if c.redis != nil {
		val, err := c.redis.Get(ctx, keyPrefix+name).Result()
		switch {
		case err == nil:
			blacklisted := val == "1"
			c.setLocal(name, blacklisted)
			metrics.BlacklistCacheHits.Inc()
			return blacklisted, nil
		case err == redis.Nil:
			// Cache miss, fall through to the store.
		default:
			metrics.BlacklistStoreFallbacks.Inc()
			c.logger.Warn("Blacklist cache unreachable, falling back to store",
				zap.String("domain", name),
				zap.Error(err),
			)
			return c.lookupStore(ctx, name, false)
		}
	}

	metrics.BlacklistCacheMisses.Inc()
	return c.lookupStore(ctx, name, true)
}

// Invalidate drops the entry for a domain after a blacklist mutation.
func (c *Cache) Invalidate(ctx context.Context, name string) {
	c.mu.Lock()
	delete(c.local, name)
	c.mu.Unlock()

	if c.redis != nil {
		if err := c.redis.Del(ctx, keyPrefix+name).Err(); err != nil {
			c.logger.Warn("Failed to invalidate blacklist cache entry",
				zap.String("domain", name),
				zap.Error(err),
			)
		}
	}
}

// lookupStore queries the primary store, optionally populating the caches.
// A store miss is cached as false.
func (c *Cache) lookupStore(ctx context.Context, name string, populate bool) (bool, error) {
	v, err, _ := c.group.Do(name, func() (interface{}, error) {
		blacklisted, err := c.store.IsDomainBlacklisted(ctx, name)
		if err != nil {
			return false, fmt.Errorf("blacklist store lookup for %s: %w", name, err)
		}

		if populate {
			c.setLocal(name, blacklisted)
			if c.redis != nil {
				val := "0"
				if blacklisted {
					val = "1"
				}
				if err := c.redis.Set(ctx, keyPrefix+name, val, c.ttl).Err(); err != nil {
					c.logger.Debug("Failed to populate blacklist cache",
						zap.String("domain", name),
						zap.Error(err),
					)
				}
			}
		}
		return blacklisted, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (c *Cache) getLocal(name string) (bool, bool) {
	c.mu.RLock()
	entry, ok := c.local[name]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expiresAt) {
		return false, false
	}
	return entry.blacklisted, true
}

func (c *Cache) setLocal(name string, blacklisted bool) {
	c.mu.Lock()
	c.local[name] = localEntry{blacklisted: blacklisted, expiresAt: c.now().Add(localTTL)}
	c.mu.Unlock()
}
