// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package setassoc

import "log/slog"

// Option configures a Cache.
type Option[K comparable, V any] func(*options[K, V])

type options[K comparable, V any] struct {
	logger  *slog.Logger
	onEvict func(K, V)
}

// WithLogger sets the logger used for debug records. A nil logger is ignored.
func WithLogger[K comparable, V any](logger *slog.Logger) Option[K, V] {
	return func(o *options[K, V]) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithOnEvict registers a callback for entries evicted to make room or by
// RemoveLRU. It runs after the cache lock is released. Evict and Clear do not
// invoke it.
func WithOnEvict[K comparable, V any](onEvict func(K, V)) Option[K, V] {
	return func(o *options[K, V]) {
		o.onEvict = onEvict
	}
}

func applyOptions[K comparable, V any](opts ...Option[K, V]) *options[K, V] {
	o := &options[K, V]{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}
