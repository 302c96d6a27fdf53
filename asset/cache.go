package asset

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"sync"
)

// Cache holds loaded resources. Entries are never replaced or evicted: the first
// value added for an asset wins.
type Cache struct {
	mu    sync.RWMutex
	items map[Asset]any
}

func NewCache() *Cache {
	return &Cache{items: make(map[Asset]any)}
}

// Add stores v for a unless a is already cached. It reports whether v was stored.
func (c *Cache) Add(a Asset, v any) bool {
	if v == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[a]; ok {
		return false
	}
	c.items[a] = v
	return true
}

func (c *Cache) Has(a Asset) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.items[a]
	return ok
}

func (c *Cache) Get(a Asset) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[a]
	return v, ok
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Loader decodes textures from a project directory into a cache.
type Loader struct {
	BaseSrc string
	Cache   *Cache
}

// Image returns the decoded texture of a, loading it on first use.
func (l *Loader) Image(a Asset) (image.Image, error) {
	if v, ok := l.Cache.Get(a); ok {
		if img, ok := v.(image.Image); ok {
			return img, nil
		}
		return nil, fmt.Errorf("asset: %s is cached as %T", a, v)
	}
	path, err := Resolve(a, l.BaseSrc)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asset: load %s: %w", a, err)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("asset: decode %s: %w", a, err)
	}
	l.Cache.Add(a, img)
	v, _ := l.Cache.Get(a)
	return v.(image.Image), nil
}
