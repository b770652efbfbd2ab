package zoneset

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// decisionCache caches zone membership decisions by canonical name.
type decisionCache interface {
	Get(name string) (Decision, bool)
	Put(name string, d Decision)
	Len() int
	Purge()
	Stats() (hits, misses, evictions uint64)
}

// lruCache is an LRU-backed decisionCache with hit/miss/eviction
// counters.
type lruCache struct {
	lru       *lru.Cache[string, Decision]
	hits      uint64
	misses    uint64
	evictions uint64
}

// disabledCache is a no-op decisionCache used when size <= 0.
type disabledCache struct{}

// newCache builds a decisionCache with the given capacity. When size is
// zero or negative, a disabled cache is returned that always misses and
// tracks no metrics.
func newCache(size int) (decisionCache, error) {
	if size <= 0 {
		return &disabledCache{}, nil
	}

	var c lruCache
	// NewWithEvict observes evictions, including Purge-induced ones.
	inner, err := lru.NewWithEvict(size, func(_ string, _ Decision) {
		atomic.AddUint64(&c.evictions, 1)
	})
	if err != nil {
		return nil, err
	}
	c.lru = inner
	return &c, nil
}

// Get looks up a decision by name, counting the hit or miss.
func (c *lruCache) Get(name string) (Decision, bool) {
	if val, ok := c.lru.Get(name); ok {
		atomic.AddUint64(&c.hits, 1)
		return val, true
	}
	atomic.AddUint64(&c.misses, 1)
	return Decision{}, false
}

// Put stores a decision by name.
func (c *lruCache) Put(name string, d Decision) {
	c.lru.Add(name, d)
}

// Len returns the number of entries in the cache.
func (c *lruCache) Len() int { return c.lru.Len() }

// Purge clears all entries. Evictions are counted via the eviction
// callback.
func (c *lruCache) Purge() { c.lru.Purge() }

// Stats returns cumulative hit/miss/eviction counters.
func (c *lruCache) Stats() (hits, misses, evictions uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses), atomic.LoadUint64(&c.evictions)
}

func (d *disabledCache) Get(string) (Decision, bool) { return Decision{}, false }

func (d *disabledCache) Put(string, Decision) {}

func (d *disabledCache) Len() int { return 0 }

func (d *disabledCache) Purge() {}

func (d *disabledCache) Stats() (uint64, uint64, uint64) { return 0, 0, 0 }

var _ decisionCache = (*lruCache)(nil)
var _ decisionCache = (*disabledCache)(nil)
