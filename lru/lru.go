// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package lru provides a single-tier LRU cache. It is the baseline the
// set-associative cache is measured against: with first-fit placement, a
// set-associative cache of ways*capacity entries keeps exactly the keys an
// LRU of that size keeps.
package lru

import (
	"container/list"
	"sync"

	"github.com/luxfi/nwaycache"
)

var (
	_ nwaycache.Cacher[struct{}, struct{}] = (*Cache[struct{}, struct{}])(nil)
	_ nwaycache.Inspector[struct{}]        = (*Cache[struct{}, struct{}])(nil)
)

// entry is a cache entry.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// Cache is a thread-safe LRU cache.
type Cache[K comparable, V any] struct {
	lock     sync.Mutex
	size     int
	elements map[K]*list.Element
	// order holds entries oldest first.
	order   *list.List
	onEvict func(K, V)
}

// NewCache creates a new LRU cache with the specified size. Sizes below one
// are raised to one.
func NewCache[K comparable, V any](size int) *Cache[K, V] {
	return NewCacheWithOnEvict[K, V](size, nil)
}

// NewCacheWithOnEvict creates a cache that calls onEvict for every entry
// evicted to make room or by RemoveLRU.
func NewCacheWithOnEvict[K comparable, V any](size int, onEvict func(K, V)) *Cache[K, V] {
	if size <= 0 {
		size = 1
	}
	return &Cache[K, V]{
		size:     size,
		elements: make(map[K]*list.Element),
		order:    list.New(),
		onEvict:  onEvict,
	}
}

// Put inserts an element into the cache.
func (c *Cache[K, V]) Put(key K, value V) {
	c.lock.Lock()

	if elem, ok := c.elements[key]; ok {
		elem.Value.(*entry[K, V]).value = value
		c.order.MoveToBack(elem)
		c.lock.Unlock()
		return
	}

	var (
		evicted  *entry[K, V]
		didEvict bool
	)
	if c.order.Len() >= c.size {
		evicted, didEvict = c.removeOldestLocked()
	}

	c.elements[key] = c.order.PushBack(&entry[K, V]{key: key, value: value})
	c.lock.Unlock()

	if didEvict && c.onEvict != nil {
		c.onEvict(evicted.key, evicted.value)
	}
}

// Get returns the entry with the key, if it exists.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if elem, ok := c.elements[key]; ok {
		c.order.MoveToBack(elem)
		return elem.Value.(*entry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is resident without touching recency.
func (c *Cache[K, V]) Contains(key K) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	_, ok := c.elements[key]
	return ok
}

// Evict removes the specified entry from the cache.
func (c *Cache[K, V]) Evict(key K) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if elem, ok := c.elements[key]; ok {
		c.removeElement(elem)
	}
}

// RemoveLRU evicts the least recently used entry, if any.
func (c *Cache[K, V]) RemoveLRU() {
	c.lock.Lock()
	evicted, ok := c.removeOldestLocked()
	c.lock.Unlock()

	if ok && c.onEvict != nil {
		c.onEvict(evicted.key, evicted.value)
	}
}

// Flush removes all entries from the cache.
func (c *Cache[K, V]) Flush() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.elements = make(map[K]*list.Element)
	c.order.Init()
}

// Len returns the number of elements in the cache.
func (c *Cache[K, V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.order.Len()
}

// PortionFilled returns fraction of cache currently filled.
func (c *Cache[K, V]) PortionFilled() float64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return float64(c.order.Len()) / float64(c.size)
}

// Keys returns resident keys, least recently used first.
func (c *Cache[K, V]) Keys() []K {
	c.lock.Lock()
	defer c.lock.Unlock()

	keys := make([]K, 0, c.order.Len())
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		keys = append(keys, elem.Value.(*entry[K, V]).key)
	}
	return keys
}

func (c *Cache[K, V]) removeOldestLocked() (*entry[K, V], bool) {
	oldest := c.order.Front()
	if oldest == nil {
		return nil, false
	}
	return c.removeElement(oldest), true
}

func (c *Cache[K, V]) removeElement(elem *list.Element) *entry[K, V] {
	e := elem.Value.(*entry[K, V])
	delete(c.elements, e.key)
	c.order.Remove(elem)
	return e
}
