package charts

import (
	"sync"
	"time"
)

const DefaultCacheTTL = 60 * time.Second

// Chart image cache entry
type cacheEntry struct {
	createdAt time.Time
	image     []byte
}

// Cache keeps encoded images for a short time so repeated page loads with
// the same controls do not redraw.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{ttl: ttl, now: time.Now, entries: map[string]cacheEntry{}}
}

func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok {
		if c.now().Before(entry.createdAt.Add(c.ttl)) {
			img := make([]byte, len(entry.image))
			copy(img, entry.image)
			return img, true
		}
		delete(c.entries, key)
	}
	return nil, false
}

func (c *Cache) Set(key string, img []byte) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{createdAt: c.now(), image: img}
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = map[string]cacheEntry{}
	c.mu.Unlock()
}
