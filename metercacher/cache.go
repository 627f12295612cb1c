// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metercacher provides metered cache implementations.
package metercacher

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/nwaycache"
)

var _ nwaycache.Cacher[struct{}, struct{}] = (*Cache[struct{}, struct{}])(nil)

// Cache wraps a Cacher with metrics.
type Cache[K comparable, V any] struct {
	nwaycache.Cacher[K, V]
	metrics *cacheMetrics
}

// New creates a new metered cache wrapper. Metrics are registered with
// registry under namespace.
func New[K comparable, V any](
	namespace string,
	registry prometheus.Registerer,
	c nwaycache.Cacher[K, V],
) (*Cache[K, V], error) {
	metrics, err := newMetrics(namespace, registry)
	if err != nil {
		return nil, err
	}
	mc := &Cache[K, V]{
		Cacher:  c,
		metrics: metrics,
	}
	mc.observeSize()
	return mc, nil
}

func (c *Cache[K, V]) Put(key K, value V) {
	start := time.Now()
	c.Cacher.Put(key, value)
	putDuration := time.Since(start)

	c.metrics.putCount.Inc()
	c.metrics.putTime.Add(float64(putDuration))
	c.observeSize()
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	start := time.Now()
	value, has := c.Cacher.Get(key)
	getDuration := time.Since(start)

	if has {
		c.metrics.getCount.With(hitLabels).Inc()
		c.metrics.getTime.With(hitLabels).Add(float64(getDuration))
	} else {
		c.metrics.getCount.With(missLabels).Inc()
		c.metrics.getTime.With(missLabels).Add(float64(getDuration))
	}

	return value, has
}

func (c *Cache[K, _]) Evict(key K) {
	c.Cacher.Evict(key)
	c.observeSize()
}

func (c *Cache[_, _]) Flush() {
	c.Cacher.Flush()
	c.observeSize()
}

// Observe refreshes the size gauges. Call it after mutating the wrapped cache
// directly, e.g. through RemoveLRU.
func (c *Cache[_, _]) Observe() {
	c.observeSize()
}

func (c *Cache[_, _]) observeSize() {
	c.metrics.len.Set(float64(c.Cacher.Len()))
	c.metrics.portionFilled.Set(c.Cacher.PortionFilled())
	if sc, ok := c.Cacher.(nwaycache.SlotCounter); ok {
		c.metrics.slots.Set(float64(sc.SlotCount()))
	}
}
