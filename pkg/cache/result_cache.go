// Package cache provides in-memory caching of built query results.
//
// Compiling a declarative query description into Cypher text is cheap but
// not free; tools that re-render the same descriptions repeatedly (watch
// mode, batch compilation) can skip the rebuild when the source document is
// unchanged. Keys are content hashes of the source document, so an edited
// document naturally misses.
//
// Features:
// - LRU eviction for bounded memory
// - TTL expiration for stale entries
// - Thread-safe operations
// - Hit/miss statistics
//
// Usage:
//
//	c := cache.New(256, 5*time.Minute)
//
//	key := cache.Key(specBytes)
//	if result, ok := c.Get(key); ok {
//		return result
//	}
//	result := compile(specBytes)
//	c.Put(key, result)
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/orneryd/cypherbuild/pkg/cypher"
)

// ResultCache is a thread-safe LRU cache of built *cypher.Result values,
// keyed by the content hash of the document they were compiled from.
type ResultCache struct {
	mu sync.RWMutex

	maxSize int
	ttl     time.Duration

	list  *list.List
	items map[uint64]*list.Element

	hits   uint64
	misses uint64
}

type cacheEntry struct {
	key       uint64
	result    *cypher.Result
	expiresAt time.Time
}

// New creates a result cache holding up to maxSize entries, each expiring
// after ttl (0 disables expiration).
func New(maxSize int, ttl time.Duration) *ResultCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	return &ResultCache{
		maxSize: maxSize,
		ttl:     ttl,
		list:    list.New(),
		items:   make(map[uint64]*list.Element, maxSize),
	}
}

// Key hashes a source document into a cache key. Identical bytes always map
// to the same key.
func Key(document []byte) uint64 {
	return xxh3.Hash(document)
}

// Get returns the cached result for key if present and not expired, moving
// the entry to the front of the LRU list.
func (c *ResultCache) Get(key uint64) (*cypher.Result, bool) {
	c.mu.RLock()
	elem, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		atomic.AddUint64(&c.misses, 1)
		return nil, false
	}

	entry := elem.Value.(*cacheEntry)
	if c.ttl > 0 && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		c.removeElement(elem)
		c.mu.Unlock()
		atomic.AddUint64(&c.misses, 1)
		return nil, false
	}

	c.mu.Lock()
	c.list.MoveToFront(elem)
	c.mu.Unlock()

	atomic.AddUint64(&c.hits, 1)
	return entry.result, true
}

// Put stores a result under key, evicting the least recently used entries
// when the cache is full.
func (c *ResultCache) Put(key uint64, result *cypher.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.result = result
		if c.ttl > 0 {
			entry.expiresAt = time.Now().Add(c.ttl)
		}
		c.list.MoveToFront(elem)
		return
	}

	for c.list.Len() >= c.maxSize {
		c.evictOldest()
	}

	entry := &cacheEntry{key: key, result: result}
	if c.ttl > 0 {
		entry.expiresAt = time.Now().Add(c.ttl)
	}
	c.items[key] = c.list.PushFront(entry)
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.list.Len()
}

// Clear removes all entries.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list.Init()
	c.items = make(map[uint64]*list.Element, c.maxSize)
}

// Stats returns hit/miss statistics.
func (c *ResultCache) Stats() Stats {
	hits := atomic.LoadUint64(&c.hits)
	misses := atomic.LoadUint64(&c.misses)

	c.mu.RLock()
	size := c.list.Len()
	c.mu.RUnlock()

	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return Stats{Size: size, MaxSize: c.maxSize, Hits: hits, Misses: misses, HitRate: hitRate}
}

// Stats holds cache performance counters.
type Stats struct {
	Size    int
	MaxSize int
	Hits    uint64
	Misses  uint64
	HitRate float64 // percentage, 0-100
}

// evictOldest removes the least recently used entry. Caller must hold the
// lock.
func (c *ResultCache) evictOldest() {
	if elem := c.list.Back(); elem != nil {
		c.removeElement(elem)
	}
}

// removeElement removes an element. Caller must hold the lock.
func (c *ResultCache) removeElement(elem *list.Element) {
	c.list.Remove(elem)
	delete(c.items, elem.Value.(*cacheEntry).key)
}
