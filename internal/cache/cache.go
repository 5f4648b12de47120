package cache

import "sync"

// Cache is a generic thread-safe LRU cache with a fixed capacity.
// When an insertion exceeds the capacity, the least recently used entry is
// evicted.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*entry[K, V]
	order    ring[K, V]
	capacity int

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a new cache holding at most capacity entries.
// A capacity of 0 or less means unlimited.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	c := &Cache[K, V]{
		entries:  make(map[K]*entry[K, V]),
		capacity: capacity,
	}
	c.order.init()
	return c
}

// Get retrieves a value from the cache.
// Returns (value, true) if found, (zero, false) otherwise.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.touch(e)
	return e.value, true
}

// Set stores a value in the cache, replacing any previous value for key.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store(key, value)
}

// GetOrCreate returns the cached value for key or creates, stores and
// returns it. create is called under the lock, so concurrent callers never
// build the same value twice.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.hits++
		c.order.touch(e)
		return e.value
	}
	c.misses++
	value := create()
	c.store(key, value)
	return value
}

// Delete removes an entry from the cache.
// Returns true if the entry was found and removed.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.unlink(e)
	delete(c.entries, key)
	return true
}

// Clear removes all entries and resets the statistics.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*entry[K, V])
	c.order.init()
	c.hits, c.misses, c.evictions = 0, 0, 0
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// store inserts or replaces key and evicts the oldest entries while over
// capacity. Caller must hold c.mu.
func (c *Cache[K, V]) store(key K, value V) {
	if e, ok := c.entries[key]; ok {
		e.value = value
		c.order.touch(e)
		return
	}
	e := &entry[K, V]{key: key, value: value}
	c.entries[key] = e
	c.order.pushFront(e)

	for c.capacity > 0 && c.order.len() > c.capacity {
		old := c.order.oldest()
		c.order.unlink(old)
		delete(c.entries, old.key)
		c.evictions++
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the maximum number of entries, 0 for unlimited.
	Capacity int
	// Hits is the number of lookups that found an entry.
	Hits uint64
	// Misses is the number of lookups that did not.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), 0 before any lookup.
	HitRate float64
	// Evictions is the number of entries dropped for capacity.
	Evictions uint64
}
