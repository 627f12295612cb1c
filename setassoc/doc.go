// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package setassoc implements an N-way set-associative LRU cache.
//
// Entries are grouped into slots of at most Ways entries each, and the cache
// allocates at most Capacity slots. A new key goes to the first slot with a
// free way, in slot-creation order. When every slot is full and no more slots
// may be allocated, the least recently used entry of the whole cache is
// evicted and the new key takes its place in the freed slot.
//
// Two recency orders are kept: one per slot and one across the cache. Both
// are rings of handles into a single arena that owns the entries, so an entry
// is never present in one order but missing from the other.
//
//	c, err := setassoc.New[string, []byte](4, 256)
//	if err != nil {
//		return err
//	}
//	c.Put("a", payload)
//	v, ok := c.Get("a")
//
// A Cache is safe for concurrent use. A standalone Slot is not.
package setassoc
