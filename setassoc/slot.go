// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package setassoc

import "fmt"

// Slot is a bounded group of at most Ways entries with its own LRU order.
//
// This type is not safe for concurrent use. Slots owned by a Cache are only
// touched while the cache lock is held.
type Slot[K comparable, V any] struct {
	id      int
	ways    int
	members map[K]handle
	order   ring
	nodes   *arena[K, V]
}

// NewSlot creates a standalone slot holding at most ways entries.
func NewSlot[K comparable, V any](ways int) (*Slot[K, V], error) {
	if ways < 1 {
		return nil, fmt.Errorf("%w: ways must be positive, got %d", ErrInvalidConfig, ways)
	}
	if ways > maxEntries {
		return nil, fmt.Errorf("%w: ways must not exceed %d, got %d", ErrInvalidConfig, maxEntries, ways)
	}
	return newSlot(0, ways, newArena[K, V](min(ways, maxPrealloc))), nil
}

func newSlot[K comparable, V any](id, ways int, nodes *arena[K, V]) *Slot[K, V] {
	return &Slot[K, V]{
		id:      id,
		ways:    ways,
		members: make(map[K]handle, min(ways, maxPrealloc)),
		order:   newRing(slotRing),
		nodes:   nodes,
	}
}

// Insert stores value under key. If key is already present its value is
// replaced and it becomes the most recently used entry. Otherwise, if the slot
// is full, the least recently used entry is evicted and returned.
func (s *Slot[K, V]) Insert(key K, value V) (Entry[K, V], bool) {
	_, evicted, ok := s.insert(key, value)
	return evicted, ok
}

func (s *Slot[K, V]) insert(key K, value V) (handle, Entry[K, V], bool) {
	e := Entry[K, V]{Key: key, Value: value}
	if h, ok := s.members[key]; ok {
		s.nodes.get(h).entry = e
		s.nodes.moveToBack(&s.order, h)
		return h, Entry[K, V]{}, false
	}

	var (
		evicted  Entry[K, V]
		didEvict bool
	)
	if s.IsFull() {
		evicted = s.drop(s.order.head)
		didEvict = true
	}

	h := s.nodes.alloc(e, s.id)
	s.nodes.pushBack(&s.order, h)
	s.members[key] = h
	return h, evicted, didEvict
}

// Get returns the value stored under key and marks it most recently used.
func (s *Slot[K, V]) Get(key K) (V, bool) {
	h, ok := s.touch(key)
	if !ok {
		var zero V
		return zero, false
	}
	return s.nodes.get(h).entry.Value, true
}

func (s *Slot[K, V]) touch(key K) (handle, bool) {
	h, ok := s.members[key]
	if !ok {
		return nilHandle, false
	}
	s.nodes.moveToBack(&s.order, h)
	return h, true
}

// Remove deletes key from the slot regardless of its recency.
func (s *Slot[K, V]) Remove(key K) (Entry[K, V], bool) {
	h, ok := s.members[key]
	if !ok {
		return Entry[K, V]{}, false
	}
	return s.drop(h), true
}

func (s *Slot[K, V]) drop(h handle) Entry[K, V] {
	s.nodes.unlink(&s.order, h)
	e := s.nodes.release(h)
	delete(s.members, e.Key)
	return e
}

// Oldest returns the least recently used entry without touching it.
func (s *Slot[K, V]) Oldest() (Entry[K, V], bool) {
	if s.order.head == nilHandle {
		return Entry[K, V]{}, false
	}
	return s.nodes.get(s.order.head).entry, true
}

// Keys returns the keys in the slot, least recently used first.
func (s *Slot[K, V]) Keys() []K {
	keys := make([]K, 0, s.order.len)
	s.nodes.walk(&s.order, func(h handle) bool {
		keys = append(keys, s.nodes.get(h).entry.Key)
		return true
	})
	return keys
}

func (s *Slot[K, V]) has(key K) bool {
	_, ok := s.members[key]
	return ok
}

// IsFull reports whether every way is occupied.
func (s *Slot[K, V]) IsFull() bool { return len(s.members) >= s.ways }

// IsEmpty reports whether the slot holds no entries.
func (s *Slot[K, V]) IsEmpty() bool { return len(s.members) == 0 }

// Len returns the number of entries in the slot.
func (s *Slot[K, V]) Len() int { return len(s.members) }

// Ways returns the maximum number of entries the slot can hold.
func (s *Slot[K, V]) Ways() int { return s.ways }
