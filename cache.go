// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package nwaycache provides caching interfaces shared by the set-associative
// cache and the plain LRU cache in this module.
package nwaycache

// Cacher acts as a best effort key value store.
type Cacher[K comparable, V any] interface {
	// Put inserts an element into the cache.
	Put(key K, value V)

	// Get returns the entry with the key, if it exists.
	Get(key K) (V, bool)

	// Evict removes the specified entry from the cache.
	Evict(key K)

	// Flush removes all entries from the cache.
	Flush()

	// Len returns the number of elements in the cache.
	Len() int

	// PortionFilled returns fraction of cache currently filled (0 --> 1).
	PortionFilled() float64
}

// Inspector exposes read-mostly views and explicit LRU eviction.
type Inspector[K comparable] interface {
	// Contains reports whether key is resident without touching recency.
	Contains(key K) bool

	// Keys returns resident keys, least recently used first.
	Keys() []K

	// RemoveLRU evicts the least recently used entry. It is a no-op on an
	// empty cache.
	RemoveLRU()
}

// SlotCounter is implemented by caches that place entries into slots.
type SlotCounter interface {
	SlotCount() int
}
