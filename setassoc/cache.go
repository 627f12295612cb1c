// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package setassoc

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/luxfi/nwaycache"
)

var (
	_ nwaycache.Cacher[struct{}, struct{}] = (*Cache[struct{}, struct{}])(nil)
	_ nwaycache.Inspector[struct{}]        = (*Cache[struct{}, struct{}])(nil)
	_ nwaycache.SlotCounter                = (*Cache[struct{}, struct{}])(nil)
)

// maxPrealloc bounds how many arena nodes are reserved up front.
const maxPrealloc = 4096

// Cache is a thread-safe N-way set-associative LRU cache.
type Cache[K comparable, V any] struct {
	lock     sync.Mutex
	ways     int
	capacity int

	// slots in creation order; a slot's id is its position.
	slots []*Slot[K, V]
	// index maps every resident key to the slot holding it. It never owns
	// entries.
	index map[K]*Slot[K, V]
	nodes *arena[K, V]

	stats   Statistics
	log     *slog.Logger
	onEvict func(K, V)
}

// New creates a cache of at most capacity slots holding ways entries each.
func New[K comparable, V any](ways, capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	cfg := Config{Ways: ways, Capacity: capacity}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(opts...)
	return &Cache[K, V]{
		ways:     ways,
		capacity: capacity,
		index:    make(map[K]*Slot[K, V]),
		nodes:    newArena[K, V](min(cfg.MaxEntries(), maxPrealloc)),
		log:      o.logger,
		onEvict:  o.onEvict,
	}, nil
}

// Put inserts or replaces the value stored under key and marks it most
// recently used. A new key goes to the first slot with a free way. If every
// slot is full and no slot can be allocated, the least recently used entry of
// the whole cache is evicted to make room.
func (c *Cache[K, V]) Put(key K, value V) {
	c.stats.put()

	c.lock.Lock()
	evicted, ok := c.putLocked(key, value)
	c.lock.Unlock()

	if ok {
		c.notifyEvicted(evicted)
	}
}

func (c *Cache[K, V]) putLocked(key K, value V) (Entry[K, V], bool) {
	if s, ok := c.index[key]; ok {
		h, _, _ := s.insert(key, value)
		c.nodes.moveToBack(&c.nodes.global, h)
		return Entry[K, V]{}, false
	}

	var (
		evicted  Entry[K, V]
		didEvict bool
	)
	s := c.firstOpenLocked()
	if s == nil {
		if len(c.slots) < c.capacity {
			s = c.allocSlotLocked()
		} else {
			evicted, s, didEvict = c.evictLRULocked()
		}
	}

	// s has a free way here, so the slot never evicts on its own.
	s.insert(key, value)
	c.index[key] = s
	return evicted, didEvict
}

// firstOpenLocked returns the first slot, in creation order, with a free way.
func (c *Cache[K, V]) firstOpenLocked() *Slot[K, V] {
	for _, s := range c.slots {
		if !s.IsFull() {
			return s
		}
	}
	return nil
}

func (c *Cache[K, V]) allocSlotLocked() *Slot[K, V] {
	s := newSlot(len(c.slots), c.ways, c.nodes)
	c.slots = append(c.slots, s)
	c.log.Debug("allocated slot",
		"slot", s.id,
		"slots", len(c.slots),
		"capacity", c.capacity,
	)
	return s
}

// evictLRULocked removes the least recently used entry of the whole cache
// and returns it with the slot it was removed from.
func (c *Cache[K, V]) evictLRULocked() (Entry[K, V], *Slot[K, V], bool) {
	h := c.nodes.global.head
	if h == nilHandle {
		return Entry[K, V]{}, nil, false
	}
	nd := c.nodes.get(h)
	s := c.slots[nd.slot]
	e, _ := s.Remove(nd.entry.Key)
	delete(c.index, e.Key)
	c.stats.eviction()
	c.log.Debug("evicted least recently used entry",
		"key", e.Key,
		"slot", s.id,
		"entries", c.nodes.global.len,
	)
	return e, s, true
}

func (c *Cache[K, V]) notifyEvicted(e Entry[K, V]) {
	if c.onEvict != nil {
		c.onEvict(e.Key, e.Value)
	}
}

// Get returns the value stored under key and marks it most recently used,
// both within its slot and across the cache.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	h, ok := c.touchLocked(key)
	if !ok {
		c.stats.miss()
		var zero V
		return zero, false
	}
	c.stats.hit()
	return c.nodes.get(h).entry.Value, true
}

// Value is like Get but reports a missing key as an error wrapping
// ErrKeyNotFound.
func (c *Cache[K, V]) Value(key K) (V, error) {
	v, ok := c.Get(key)
	if !ok {
		return v, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	return v, nil
}

func (c *Cache[K, V]) touchLocked(key K) (handle, bool) {
	s, ok := c.index[key]
	if !ok {
		return nilHandle, false
	}
	h, ok := s.touch(key)
	if !ok {
		return nilHandle, false
	}
	c.nodes.moveToBack(&c.nodes.global, h)
	return h, true
}

// Contains reports whether key is resident. It scans every slot and does
// not change recency.
func (c *Cache[K, V]) Contains(key K) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	for _, s := range c.slots {
		if s.has(key) {
			return true
		}
	}
	return false
}

// Evict removes key from the cache if present. The eviction callback is not
// invoked.
func (c *Cache[K, V]) Evict(key K) {
	c.lock.Lock()
	defer c.lock.Unlock()

	s, ok := c.index[key]
	if !ok {
		return
	}
	s.Remove(key)
	delete(c.index, key)
}

// RemoveLRU evicts the least recently used entry of the whole cache. It does
// nothing when the cache is empty.
func (c *Cache[K, V]) RemoveLRU() {
	c.lock.Lock()
	evicted, _, ok := c.evictLRULocked()
	c.lock.Unlock()

	if ok {
		c.notifyEvicted(evicted)
	}
}

// Clear drops every slot and entry. The eviction callback is not invoked.
func (c *Cache[K, V]) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()

	clear(c.slots)
	c.slots = c.slots[:0]
	clear(c.index)
	c.nodes.reset()
}

// Flush is Clear.
func (c *Cache[K, V]) Flush() {
	c.Clear()
}

// Size returns the number of allocated slots and resident entries.
func (c *Cache[K, V]) Size() (int, int) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.slots), c.entryCountLocked()
}

// SlotCount returns the number of allocated slots.
func (c *Cache[K, V]) SlotCount() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.slots)
}

// EntryCount returns the number of resident entries across all slots.
func (c *Cache[K, V]) EntryCount() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.entryCountLocked()
}

func (c *Cache[K, V]) entryCountLocked() int {
	n := 0
	for _, s := range c.slots {
		n += s.Len()
	}
	return n
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int {
	return c.EntryCount()
}

// PortionFilled returns fraction of cache currently filled (0 --> 1).
func (c *Cache[K, V]) PortionFilled() float64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return float64(c.entryCountLocked()) / (float64(c.ways) * float64(c.capacity))
}

// Keys returns resident keys in cache-wide recency order, least recently
// used first.
func (c *Cache[K, V]) Keys() []K {
	c.lock.Lock()
	defer c.lock.Unlock()

	keys := make([]K, 0, c.nodes.global.len)
	c.nodes.walk(&c.nodes.global, func(h handle) bool {
		keys = append(keys, c.nodes.get(h).entry.Key)
		return true
	})
	return keys
}

// SlotKeys returns the keys of every slot in creation order, each slot's keys
// least recently used first.
func (c *Cache[K, V]) SlotKeys() [][]K {
	c.lock.Lock()
	defer c.lock.Unlock()

	out := make([][]K, len(c.slots))
	for i, s := range c.slots {
		out[i] = s.Keys()
	}
	return out
}

// Ways returns the number of entries a slot can hold.
func (c *Cache[K, V]) Ways() int { return c.ways }

// Capacity returns the maximum number of slots.
func (c *Cache[K, V]) Capacity() int { return c.capacity }

// Stats returns the cache's operation counters.
func (c *Cache[K, V]) Stats() *Statistics { return &c.stats }
