package querygen

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/grantscout/discovery/internal/metrics"
)

// CacheKey identifies one normalized generation request. Two requests with
// the same engine, categories, geography, optional dimensions, and maxQueries
// map to the same key regardless of input ordering.
type CacheKey string

// ComputeCacheKey hashes the normalized request fields.
func ComputeCacheKey(req *Request) CacheKey {
	parts := []string{
		"engine=" + string(req.SearchEngine),
		"geo=" + string(req.Geographic),
		"max=" + strconv.Itoa(req.MaxQueries),
	}

	categories := make([]string, 0, len(req.Categories))
	for _, c := range req.Categories {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)
	parts = append(parts, "categories="+strings.Join(categories, ","))

	appendDim := func(name string, values []string) {
		if len(values) == 0 {
			return
		}
		sorted := append([]string(nil), values...)
		sort.Strings(sorted)
		parts = append(parts, name+"="+strings.Join(sorted, ","))
	}
	appendDim("source_types", stringify(req.SourceTypes))
	appendDim("mechanisms", stringify(req.Mechanisms))
	appendDim("scales", stringify(req.Scales))
	appendDim("populations", stringify(req.Populations))
	appendDim("org_types", stringify(req.OrgTypes))
	appendDim("languages", stringify(req.Languages))

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return CacheKey(hex.EncodeToString(sum[:]))
}

func stringify[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// CacheStats is a point-in-time snapshot of cache effectiveness.
type CacheStats struct {
	Size    int     `json:"size"`
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

type cacheEntry struct {
	key       CacheKey
	response  *Response
	expiresAt time.Time
}

// Cache is a process-wide, write-once LRU with per-entry TTL. Entries are
// never overwritten while live; expired entries are replaced on write and
// treated as misses on read.
type Cache struct {
	mu       sync.Mutex
	maxSize  int
	ttl      time.Duration
	entries  map[CacheKey]*list.Element
	eviction *list.List

	hits   uint64
	misses uint64

	now func() time.Time
}

// NewCache builds a cache with the given capacity and TTL.
func NewCache(maxSize int, ttl time.Duration) *Cache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cache{
		maxSize:  maxSize,
		ttl:      ttl,
		entries:  make(map[CacheKey]*list.Element),
		eviction: list.New(),
		now:      time.Now,
	}
}

// Get returns the cached response for key, if present and unexpired.
func (c *Cache) Get(key CacheKey) (*Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		metrics.QueryCacheMisses.Inc()
		return nil, false
	}

	entry := elem.Value.(*cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.removeLocked(elem)
		c.misses++
		metrics.QueryCacheMisses.Inc()
		return nil, false
	}

	c.eviction.MoveToFront(elem)
	c.hits++
	metrics.QueryCacheHits.Inc()
	return entry.response, true
}

// Put stores a response under key. Live entries are write-once and keep their
// original value; expired slots are reused.
func (c *Cache) Put(key CacheKey, response *Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry)
		if c.now().Before(entry.expiresAt) {
			return
		}
		c.removeLocked(elem)
	}

	for len(c.entries) >= c.maxSize {
		oldest := c.eviction.Back()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest)
		metrics.QueryCacheEvictions.Inc()
	}

	elem := c.eviction.PushFront(&cacheEntry{
		key:       key,
		response:  response,
		expiresAt: c.now().Add(c.ttl),
	})
	c.entries[key] = elem
	metrics.QueryCacheSize.Set(float64(len(c.entries)))
}

// Stats returns a snapshot of size and hit/miss counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{
		Size:   len(c.entries),
		Hits:   c.hits,
		Misses: c.misses,
	}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}
	return stats
}

func (c *Cache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	delete(c.entries, entry.key)
	c.eviction.Remove(elem)
	metrics.QueryCacheSize.Set(float64(len(c.entries)))
}
