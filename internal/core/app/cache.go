package app

import (
	"container/list"
	"sync"
)

// lruCache is a thread-safe, capacity-bounded least-recently-used cache for
// finished analysis results, keyed by corpus content hash. The caller owns
// its lifetime: closing the service drops it, nothing survives the process.
type lruCache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*list.Element
	order    *list.List // front = most-recently used
}

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

func newLRUCache[K comparable, V any](capacity int) *lruCache[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &lruCache[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element, capacity),
		order:    list.New(),
	}
}

// get returns the cached value and true if the key exists. A hit moves the
// entry to the front.
func (c *lruCache[K, V]) get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*lruEntry[K, V]).value, true
}

// put inserts or updates a key. At capacity the least-recently-used entry
// is evicted first.
func (c *lruCache[K, V]) put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		el.Value.(*lruEntry[K, V]).value = value
		return
	}

	if c.order.Len() >= c.capacity {
		last := c.order.Back()
		if last != nil {
			entry := last.Value.(*lruEntry[K, V])
			delete(c.items, entry.key)
			c.order.Remove(last)
		}
	}

	el := c.order.PushFront(&lruEntry[K, V]{key: key, value: value})
	c.items[key] = el
}

func (c *lruCache[K, V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
