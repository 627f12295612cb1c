// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package setassoc

import (
	"fmt"
	"math"
)

// maxEntries is the largest number of entries an arena can address.
const maxEntries = math.MaxInt32

// Config sizes a set-associative cache.
type Config struct {
	// Ways is the number of entries a single slot can hold.
	Ways int `json:"ways" yaml:"ways"`

	// Capacity is the maximum number of slots.
	Capacity int `json:"capacity" yaml:"capacity"`
}

// DefaultConfig returns a 4-way cache of 256 slots.
func DefaultConfig() Config {
	return Config{
		Ways:     4,
		Capacity: 256,
	}
}

// Validate reports ErrInvalidConfig when either dimension is not positive or
// when the cache would hold more entries than it can address.
func (c Config) Validate() error {
	if c.Ways < 1 {
		return fmt.Errorf("%w: ways must be positive, got %d", ErrInvalidConfig, c.Ways)
	}
	if c.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.Ways > maxEntries/c.Capacity {
		return fmt.Errorf("%w: %d ways x %d slots exceeds %d entries",
			ErrInvalidConfig, c.Ways, c.Capacity, maxEntries)
	}
	return nil
}

// MaxEntries returns the number of entries the cache can hold when full. It
// is only meaningful for a config that passes Validate.
func (c Config) MaxEntries() int {
	return c.Ways * c.Capacity
}

// NewFromConfig creates a cache sized by cfg.
func NewFromConfig[K comparable, V any](cfg Config, opts ...Option[K, V]) (*Cache[K, V], error) {
	return New[K, V](cfg.Ways, cfg.Capacity, opts...)
}
