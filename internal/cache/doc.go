// Package cache provides a small generic, thread-safe LRU cache.
//
//	c := cache.New[int, []float64](32)
//	k := c.GetOrCreate(radius, func() []float64 { return build(radius) })
//
// Values are shared between callers and must be treated as read-only.
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
