// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package setassoc

// handle indexes a node in an arena.
type handle int32

const nilHandle handle = -1

// Every node is threaded onto two rings at once: the ring of its slot and the
// global ring of the arena.
const (
	slotRing = iota
	globalRing
	numRings
)

type link struct {
	prev, next handle
}

type node[K comparable, V any] struct {
	entry Entry[K, V]
	slot  int
	links [numRings]link
}

// ring is a doubly linked recency order over arena nodes, oldest at head.
type ring struct {
	kind       int
	head, tail handle
	len        int
}

func newRing(kind int) ring {
	return ring{kind: kind, head: nilHandle, tail: nilHandle}
}

// arena owns every entry of a cache. Slots and the global order only hold
// handles into it.
//
// This type is not safe for concurrent use.
type arena[K comparable, V any] struct {
	nodes  []node[K, V]
	free   []handle
	global ring
}

func newArena[K comparable, V any](sizeHint int) *arena[K, V] {
	return &arena[K, V]{
		nodes:  make([]node[K, V], 0, sizeHint),
		global: newRing(globalRing),
	}
}

// alloc stores e for slot and appends it to the most recently used end of
// the global ring.
func (a *arena[K, V]) alloc(e Entry[K, V], slot int) handle {
	var h handle
	if n := len(a.free); n > 0 {
		h = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.nodes = append(a.nodes, node[K, V]{})
		h = handle(len(a.nodes) - 1)
	}
	nd := &a.nodes[h]
	nd.entry = e
	nd.slot = slot
	for i := range nd.links {
		nd.links[i] = link{prev: nilHandle, next: nilHandle}
	}
	a.pushBack(&a.global, h)
	return h
}

// release unlinks h from the global ring and returns it to the free list.
// The caller must already have unlinked it from its slot ring.
func (a *arena[K, V]) release(h handle) Entry[K, V] {
	a.unlink(&a.global, h)
	e := a.nodes[h].entry
	a.nodes[h] = node[K, V]{}
	a.free = append(a.free, h)
	return e
}

func (a *arena[K, V]) reset() {
	clear(a.nodes)
	a.nodes = a.nodes[:0]
	a.free = nil
	a.global = newRing(globalRing)
}

func (a *arena[K, V]) get(h handle) *node[K, V] {
	return &a.nodes[h]
}

func (a *arena[K, V]) pushBack(r *ring, h handle) {
	l := &a.nodes[h].links[r.kind]
	l.prev = r.tail
	l.next = nilHandle
	if r.tail != nilHandle {
		a.nodes[r.tail].links[r.kind].next = h
	} else {
		r.head = h
	}
	r.tail = h
	r.len++
}

func (a *arena[K, V]) unlink(r *ring, h handle) {
	l := &a.nodes[h].links[r.kind]
	if l.prev != nilHandle {
		a.nodes[l.prev].links[r.kind].next = l.next
	} else {
		r.head = l.next
	}
	if l.next != nilHandle {
		a.nodes[l.next].links[r.kind].prev = l.prev
	} else {
		r.tail = l.prev
	}
	l.prev, l.next = nilHandle, nilHandle
	r.len--
}

// moveToBack marks h as most recently used in r.
func (a *arena[K, V]) moveToBack(r *ring, h handle) {
	if r.tail == h {
		return
	}
	a.unlink(r, h)
	a.pushBack(r, h)
}

// walk visits r oldest first until fn returns false.
func (a *arena[K, V]) walk(r *ring, fn func(h handle) bool) {
	for h := r.head; h != nilHandle; {
		next := a.nodes[h].links[r.kind].next
		if !fn(h) {
			return
		}
		h = next
	}
}
