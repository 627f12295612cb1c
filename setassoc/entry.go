// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package setassoc

import "fmt"

// Entry is a key/value pair held by the cache. Entries are handed out by
// value, so a caller can never mutate one that is still resident. Two entries
// are equal when both key and value are equal.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

func (e Entry[K, V]) String() string {
	return fmt.Sprintf("Entry %v,%v", e.Key, e.Value)
}
