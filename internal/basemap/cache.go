package basemap

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"
)

// TileKey addresses one slippy-map tile.
type TileKey struct {
	Z, X, Y int
}

// Cache is a concurrency-safe LRU of tile bytes with a TTL.
type Cache struct {
	mu         sync.Mutex
	entries    map[TileKey]*list.Element
	lru        *list.List // front = most recently used
	maxEntries int
	ttl        time.Duration
	hits       atomic.Int64
	misses     atomic.Int64

	nowFunc func() time.Time
}

type cacheEntry struct {
	key       TileKey
	data      []byte
	createdAt time.Time
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Entries    int     `json:"entries"`
	MaxEntries int     `json:"max_entries"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
}

// NewCache creates a cache holding at most maxEntries tiles for ttl each.
func NewCache(maxEntries int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &Cache{
		entries:    make(map[TileKey]*list.Element),
		lru:        list.New(),
		maxEntries: maxEntries,
		ttl:        ttl,
		nowFunc:    time.Now,
	}
}

// Get returns a cached tile, or nil on miss or expiry.
func (c *Cache) Get(k TileKey) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[k]
	if !ok {
		c.misses.Add(1)
		return nil
	}
	e := el.Value.(*cacheEntry)
	if c.ttl > 0 && c.nowFunc().Sub(e.createdAt) > c.ttl {
		c.lru.Remove(el)
		delete(c.entries, k)
		c.misses.Add(1)
		return nil
	}

	c.lru.MoveToFront(el)
	c.hits.Add(1)
	return e.data
}

// Put stores a tile, evicting the least recently used one when full.
func (c *Cache) Put(k TileKey, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nowFunc()
	if el, ok := c.entries[k]; ok {
		e := el.Value.(*cacheEntry)
		e.data, e.createdAt = data, now
		c.lru.MoveToFront(el)
		return
	}

	for c.lru.Len() >= c.maxEntries {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
	c.entries[k] = c.lru.PushFront(&cacheEntry{key: k, data: data, createdAt: now})
}

// Stats returns hit and size counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	entries := c.lru.Len()
	c.mu.Unlock()

	hits, misses := c.hits.Load(), c.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return CacheStats{Entries: entries, MaxEntries: c.maxEntries, Hits: hits, Misses: misses, HitRate: rate}
}
