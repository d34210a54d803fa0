package blacklist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grantscout/discovery/internal/circuitbreaker"
)

type stubStore struct {
	mu          sync.Mutex
	blacklisted map[string]bool
	err         error
	lookups     int
}

func (s *stubStore) IsDomainBlacklisted(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	if s.err != nil {
		return false, s.err
	}
	return s.blacklisted[name], nil
}

func newTestCache(t *testing.T, store Store) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	wrapper := circuitbreaker.NewRedisWrapper(client, "blacklist-test", zap.NewNop())
	return NewCache(wrapper, store, time.Hour, zap.NewNop()), mr
}

func TestIsBlacklistedReadThrough(t *testing.T) {
	store := &stubStore{blacklisted: map[string]bool{"scam.xyz": true}}
	cache, mr := newTestCache(t, store)
	ctx := context.Background()

	blacklisted, err := cache.IsBlacklisted(ctx, "scam.xyz")
	require.NoError(t, err)
	assert.True(t, blacklisted)
	assert.Equal(t, 1, store.lookups)

	// Populated in Redis.
	assert.Equal(t, "1", mustGet(t, mr, "discovery:blacklist:scam.xyz"))

	// Second check served from cache.
	blacklisted, err = cache.IsBlacklisted(ctx, "scam.xyz")
	require.NoError(t, err)
	assert.True(t, blacklisted)
	assert.Equal(t, 1, store.lookups)
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}

func TestMissingDomainCachedAsFalse(t *testing.T) {
	store := &stubStore{blacklisted: map[string]bool{}}
	cache, mr := newTestCache(t, store)
	ctx := context.Background()

	blacklisted, err := cache.IsBlacklisted(ctx, "europa.eu")
	require.NoError(t, err)
	assert.False(t, blacklisted)
	assert.Equal(t, "0", mustGet(t, mr, "discovery:blacklist:europa.eu"))

	// The false answer is served from cache afterwards.
	_, err = cache.IsBlacklisted(ctx, "europa.eu")
	require.NoError(t, err)
	assert.Equal(t, 1, store.lookups)
}

func TestRedisHitSkipsStore(t *testing.T) {
	store := &stubStore{}
	cache, mr := newTestCache(t, store)

	require.NoError(t, mr.Set("discovery:blacklist:known.bad", "1"))

	blacklisted, err := cache.IsBlacklisted(context.Background(), "known.bad")
	require.NoError(t, err)
	assert.True(t, blacklisted)
	assert.Equal(t, 0, store.lookups)
}

func TestRedisOutageFallsBackToStore(t *testing.T) {
	store := &stubStore{blacklisted: map[string]bool{"scam.xyz": true}}
	cache, mr := newTestCache(t, store)
	mr.Close()

	blacklisted, err := cache.IsBlacklisted(context.Background(), "scam.xyz")
	require.NoError(t, err)
	assert.True(t, blacklisted)
	assert.Equal(t, 1, store.lookups)
}

func TestStoreErrorPropagates(t *testing.T) {
	store := &stubStore{err: errors.New("db down")}
	cache, mr := newTestCache(t, store)
	mr.Close()

	_, err := cache.IsBlacklisted(context.Background(), "any.org")
	assert.Error(t, err)
}

func TestInvalidate(t *testing.T) {
	store := &stubStore{blacklisted: map[string]bool{}}
	cache, mr := newTestCache(t, store)
	ctx := context.Background()

	_, err := cache.IsBlacklisted(ctx, "flagged.org")
	require.NoError(t, err)
	require.Equal(t, 1, store.lookups)

	// Domain gets blacklisted; invalidation forces a fresh lookup.
	store.mu.Lock()
	store.blacklisted["flagged.org"] = true
	store.mu.Unlock()
	cache.Invalidate(ctx, "flagged.org")
	assert.False(t, mr.Exists("discovery:blacklist:flagged.org"))

	blacklisted, err := cache.IsBlacklisted(ctx, "flagged.org")
	require.NoError(t, err)
	assert.True(t, blacklisted)
	assert.Equal(t, 2, store.lookups)
}

func TestConsecutiveChecksAreFast(t *testing.T) {
	store := &stubStore{blacklisted: map[string]bool{}}
	cache, _ := newTestCache(t, store)
	ctx := context.Background()

	domains := make([]string, 25)
	for i := range domains {
		domains[i] = "domain" + string(rune('a'+i)) + ".org"
		_, err := cache.IsBlacklisted(ctx, domains[i])
		require.NoError(t, err)
	}

	start := time.Now()
	for _, d := range domains {
		_, err := cache.IsBlacklisted(ctx, d)
		require.NoError(t, err)
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}
