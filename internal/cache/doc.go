// Package cache provides a small generic LRU cache.
//
//	c := cache.New[int, font.Face](4)
//	c.OnEvict = func(_ int, f font.Face) { f.Close() }
//	f, err := c.GetOrCreate(16, newFace)
//
// The cache is safe for concurrent use. It must not be copied after
// creation.
package cache
