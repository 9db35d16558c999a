// Package texture finds, decodes and caches the images the renderer maps
// onto the ground and the castle surface.
package texture

import (
	"image"
	"sync"

	"trainview/internal/monitoring"
)

// Resolver resolves a texture name to a decoded RGBA image.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache. Names missing from the index,
// or whose file fails to load, fall back to the built-in textures.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
}

type cacheEntry struct {
	img *image.NRGBA
}

// NewCache creates a new texture cache backed by the given index. A nil
// index serves built-in textures only.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
	}
}

// Resolve loads and caches a texture by name. Returns nil if neither a file
// nor a built-in texture exists.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	key := stemOf(texName)

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[key]; exists {
		c.mu.RUnlock()
		return entry.img
	}
	c.mu.RUnlock()

	// Slow path: load from disk outside the lock
	var img *image.NRGBA
	if path, ok := c.index.ResolvePath(texName); ok {
		var err error
		img, err = LoadTexture(path)
		if err != nil {
			monitoring.Warnf("%v; using built-in %q", err, key)
		}
	}
	if img == nil {
		img = Builtin(key)
	}

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[key]; exists {
		return entry.img
	}
	c.items[key] = &cacheEntry{img: img}
	return img
}

// Len returns the number of cached names, including misses.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
