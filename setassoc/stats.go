// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package setassoc

import "sync/atomic"

// Statistics counts cache operations. It is always collected and safe to read
// while the cache is in use.
type Statistics struct {
	hits      atomic.Int64
	misses    atomic.Int64
	puts      atomic.Int64
	evictions atomic.Int64
}

func (s *Statistics) hit()      { s.hits.Add(1) }
func (s *Statistics) miss()     { s.misses.Add(1) }
func (s *Statistics) put()      { s.puts.Add(1) }
func (s *Statistics) eviction() { s.evictions.Add(1) }

// Hits returns the number of lookups that found their key.
func (s *Statistics) Hits() int64 { return s.hits.Load() }

// Misses returns the number of lookups that did not find their key.
func (s *Statistics) Misses() int64 { return s.misses.Load() }

// Puts returns the number of Put calls.
func (s *Statistics) Puts() int64 { return s.puts.Load() }

// Evictions returns the number of entries evicted to make room or by
// RemoveLRU. Explicit Evict and Clear are not counted.
func (s *Statistics) Evictions() int64 { return s.evictions.Load() }

// HitRatio returns hits / (hits + misses), or 0 before the first lookup.
func (s *Statistics) HitRatio() float64 {
	hits := s.Hits()
	total := hits + s.Misses()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
