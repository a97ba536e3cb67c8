package cache

import (
	"sync"
	"time"
)

// entry stores a cached value and the instant it was stored.
type entry[V any] struct {
	value    V
	storedAt time.Time
}

// TTLCache is a map-backed cache where every entry shares the cache's TTL.
// There is no background janitor: expired entries are removed lazily when a
// lookup finds them, or in bulk via PurgeExpired.
type TTLCache[V any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]entry[V]
}

// New constructs a TTLCache. A ttl <= 0 means entries never expire.
func New[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		ttl:   ttl,
		items: make(map[string]entry[V]),
	}
}

// now is a small indirection to allow test stubbing.
var now = time.Now

func (c *TTLCache[V]) expired(e entry[V], at time.Time) bool {
	return c.ttl > 0 && at.Sub(e.storedAt) > c.ttl
}

// Get implements Cache.Get. It takes the write lock because a stale entry
// is evicted during the lookup.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if c.expired(e, now()) {
		delete(c.items, key)
		return zero, false
	}
	return e.value, true
}

// Set implements Cache.Set.
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[V]{value: value, storedAt: now()}
}

// Delete implements Cache.Delete.
func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len implements Cache.Len. It counts only non-expired entries.
func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	count := 0
	at := now()
	for _, e := range c.items {
		if !c.expired(e, at) {
			count++
		}
	}
	return count
}

// Clear implements Cache.Clear.
func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry[V])
}

// PurgeExpired implements Cache.PurgeExpired.
func (c *TTLCache[V]) PurgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	at := now()
	for k, e := range c.items {
		if c.expired(e, at) {
			delete(c.items, k)
		}
	}
}

// Ensure TTLCache implements Cache at compile time.
var _ Cache[any] = (*TTLCache[any])(nil)
