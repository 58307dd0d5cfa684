package heuristic

import (
	"sync"
	"sync/atomic"

	"github.com/yourusername/bgagents/internal/positionid"
	"github.com/yourusername/bgagents/pkg/game"
)

// DefaultCacheSize is the number of entries used when NewCache gets 0.
const DefaultCacheSize = 1 << 16

type cacheEntry struct {
	key    positionid.PositionKey
	player game.Player
	valid  bool
	value  float64
}

// cacheNode is one bucket of the two-way associative table.
type cacheNode struct {
	primary   cacheEntry
	secondary cacheEntry
}

// Cache is a fixed-size, thread-safe table of evaluations keyed by
// position and perspective. Newer entries push older ones out of their
// bucket.
type Cache struct {
	mu       sync.RWMutex
	nodes    []cacheNode
	hashMask uint32

	lookups atomic.Uint64
	hits    atomic.Uint64
	adds    atomic.Uint64
}

// CacheStats reports cache usage.
type CacheStats struct {
	Lookups uint64  `json:"lookups"`
	Hits    uint64  `json:"hits"`
	Adds    uint64  `json:"adds"`
	HitRate float64 `json:"hit_rate"`
}

// NewCache creates a cache with room for at least size entries, rounded
// up to a power of two.
func NewCache(size uint32) *Cache {
	if size == 0 {
		size = DefaultCacheSize
	}
	if size > 1<<30 {
		size = 1 << 30
	}
	p := uint32(2)
	for p < size {
		p <<= 1
	}
	return &Cache{
		nodes:    make([]cacheNode, p/2),
		hashMask: p/2 - 1,
	}
}

// hash mixes the key with MurmurHash3 rounds.
func (c *Cache) hash(key positionid.PositionKey, p game.Player) uint32 {
	const c1, c2 = 0xcc9e2d51, 0x1b873593

	h := uint32(p)
	for _, k := range key.Data {
		k *= c1
		k = k<<15 | k>>17
		k *= c2

		h ^= k
		h = h<<13 | h>>19
		h = h*5 + 0xe6546b64
	}

	h ^= uint32(len(key.Data) * 4)
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h & c.hashMask
}

// Lookup returns the cached evaluation of key for p.
func (c *Cache) Lookup(key positionid.PositionKey, p game.Player) (float64, bool) {
	c.lookups.Add(1)
	slot := c.hash(key, p)

	c.mu.RLock()
	defer c.mu.RUnlock()

	node := &c.nodes[slot]
	for _, e := range [2]*cacheEntry{&node.primary, &node.secondary} {
		if e.valid && e.key == key && e.player == p {
			c.hits.Add(1)
			return e.value, true
		}
	}
	return 0, false
}

// Add stores an evaluation, demoting the bucket's primary entry.
func (c *Cache) Add(key positionid.PositionKey, p game.Player, value float64) {
	slot := c.hash(key, p)

	c.mu.Lock()
	defer c.mu.Unlock()

	node := &c.nodes[slot]
	node.secondary = node.primary
	node.primary = cacheEntry{key: key, player: p, valid: true, value: value}
	c.adds.Add(1)
}

// Flush empties the cache and resets its statistics.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.nodes)
	c.lookups.Store(0)
	c.hits.Store(0)
	c.adds.Store(0)
}

// Stats returns usage counters.
func (c *Cache) Stats() CacheStats {
	st := CacheStats{
		Lookups: c.lookups.Load(),
		Hits:    c.hits.Load(),
		Adds:    c.adds.Load(),
	}
	if st.Lookups > 0 {
		st.HitRate = float64(st.Hits) / float64(st.Lookups) * 100
	}
	return st
}
