package setassoc

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCache[K comparable, V any](t *testing.T, ways, capacity int, opts ...Option[K, V]) *Cache[K, V] {
	t.Helper()
	c, err := New[K, V](ways, capacity, opts...)
	require.NoError(t, err)
	return c
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name     string
		ways     int
		capacity int
	}{
		{name: "zero ways", ways: 0, capacity: 1},
		{name: "zero capacity", ways: 1, capacity: 0},
		{name: "negative both", ways: -1, capacity: -1},
		{name: "entry count overflows int", ways: math.MaxInt, capacity: 2},
		{name: "huge ways and capacity", ways: 1 << 32, capacity: 1 << 32},
		{name: "entry count exceeds handle range", ways: 1 << 16, capacity: 1 << 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New[int, int](tt.ways, tt.capacity)
			require.ErrorIs(t, err, ErrInvalidConfig)
			require.Nil(t, c)
		})
	}
}

func TestNewAcceptsLargestAddressableConfig(t *testing.T) {
	require := require.New(t)

	c := newTestCache[int, int](t, math.MaxInt32, 1)
	c.Put(1, 1)
	c.Put(2, 2)
	require.NoError(c.verify())
	require.Equal(1, c.SlotCount())
	require.Equal([][]int{{1, 2}}, c.SlotKeys())
	require.Equal(2.0/math.MaxInt32, c.PortionFilled())

	c = newTestCache[int, int](t, 1, math.MaxInt32)
	c.Put(1, 1)
	require.Equal(1, c.SlotCount())
}

func TestOneWayCache(t *testing.T) {
	require := require.New(t)

	var evicted []int
	c := newTestCache(t, 1, 8, WithOnEvict[int, int](func(k, _ int) {
		evicted = append(evicted, k)
	}))

	for i := 1; i <= 10; i++ {
		c.Put(i, i)
		require.NoError(c.verify())
	}

	require.Equal([]int{1, 2}, evicted)
	for _, k := range []int{1, 2} {
		_, ok := c.Get(k)
		require.False(ok, "key %d", k)
	}
	for k := 3; k <= 10; k++ {
		v, ok := c.Get(k)
		require.True(ok, "key %d", k)
		require.Equal(k, v)
	}
	require.Equal(8, c.SlotCount())
	require.Equal(8, c.EntryCount())
}

func TestTwoWayCache(t *testing.T) {
	require := require.New(t)

	c := newTestCache[int, int](t, 2, 3)

	for i := 1; i <= 10; i++ {
		c.Put(i, i)
		require.LessOrEqual(c.EntryCount(), 6)
		require.NoError(c.verify())
	}

	slots, entries := c.Size()
	require.Equal(3, slots)
	require.Equal(6, entries)

	for k := 1; k <= 4; k++ {
		_, ok := c.Get(k)
		require.False(ok, "key %d", k)
	}
	for k := 5; k <= 10; k++ {
		v, ok := c.Get(k)
		require.True(ok, "key %d", k)
		require.Equal(k, v)
	}

	// First-fit packs keys two per slot; each eviction frees a way in the
	// slot of the globally oldest key.
	require.Equal([][]int{{7, 8}, {9, 10}, {5, 6}}, c.SlotKeys())
}

func TestSaturatedCacheEvictsGlobalLRU(t *testing.T) {
	require := require.New(t)

	c := newTestCache[int, string](t, 2, 2)
	c.Put(1, "a")
	c.Put(2, "b")
	c.Put(3, "c")
	c.Put(4, "d")
	require.Equal([][]int{{1, 2}, {3, 4}}, c.SlotKeys())

	// Slot 0 holds the two most recently used keys; key 3 in slot 1 is now
	// the oldest entry of the whole cache.
	_, ok := c.Get(1)
	require.True(ok)
	_, ok = c.Get(2)
	require.True(ok)
	require.Equal([]int{3, 4, 1, 2}, c.Keys())

	c.Put(5, "e")
	require.NoError(c.verify())

	require.False(c.Contains(3))
	require.Equal([][]int{{1, 2}, {4, 5}}, c.SlotKeys())
	require.Equal([]int{4, 1, 2, 5}, c.Keys())
}

func TestSaturatedEvictionsMatchCallbacks(t *testing.T) {
	require := require.New(t)

	var evicted []int
	c := newTestCache(t, 3, 4, WithOnEvict[int, int](func(k, _ int) {
		evicted = append(evicted, k)
	}))

	const puts = 50
	for i := 0; i < puts; i++ {
		c.Put(i, i)
		require.NoError(c.verify())
	}

	// Each new key past ways*capacity evicts exactly one entry, and always the
	// globally oldest one.
	want := make([]int, 0, puts-12)
	for i := 0; i < puts-12; i++ {
		want = append(want, i)
	}
	require.Equal(want, evicted)
	require.Equal(int64(len(want)), c.Stats().Evictions())
	require.Equal(12, c.EntryCount())
}

func TestPutReplacesValue(t *testing.T) {
	require := require.New(t)

	c := newTestCache[string, int](t, 2, 2)
	c.Put("k", 1)
	c.Put("other", 2)
	before := c.EntryCount()

	c.Put("k", 10)
	require.NoError(c.verify())
	require.Equal(before, c.EntryCount())

	v, ok := c.Get("k")
	require.True(ok)
	require.Equal(10, v)
}

func TestReplaceOnSaturatedCacheDoesNotEvict(t *testing.T) {
	require := require.New(t)

	var evicted []int
	c := newTestCache(t, 2, 2, WithOnEvict[int, int](func(k, _ int) {
		evicted = append(evicted, k)
	}))
	for i := 1; i <= 4; i++ {
		c.Put(i, i)
	}

	c.Put(1, 100)
	require.Empty(evicted)
	require.Equal(4, c.EntryCount())
	require.Equal([]int{2, 3, 4, 1}, c.Keys())

	// Key 1 was refreshed by the replace, so key 2 goes next.
	c.Put(5, 5)
	require.Equal([]int{2}, evicted)
	require.NoError(c.verify())
}

func TestValue(t *testing.T) {
	require := require.New(t)

	c := newTestCache[string, string](t, 1, 1)
	c.Put("a", "apple")

	v, err := c.Value("a")
	require.NoError(err)
	require.Equal("apple", v)

	_, err = c.Value("b")
	require.ErrorIs(err, ErrKeyNotFound)
	require.Contains(err.Error(), "b")
}

func TestMissHasNoSideEffects(t *testing.T) {
	require := require.New(t)

	c := newTestCache[int, int](t, 1, 2)
	c.Put(1, 1)
	c.Put(2, 2)

	_, ok := c.Get(3)
	require.False(ok)
	require.False(c.Contains(3))
	require.Equal([]int{1, 2}, c.Keys())
	require.Equal(2, c.EntryCount())
}

func TestContainsDoesNotRefreshRecency(t *testing.T) {
	require := require.New(t)

	c := newTestCache[int, int](t, 1, 2)
	c.Put(1, 1)
	c.Put(2, 2)

	require.True(c.Contains(1))
	c.Put(3, 3)

	require.False(c.Contains(1))
	require.True(c.Contains(2))
	require.True(c.Contains(3))
}

func TestRemoveLRU(t *testing.T) {
	require := require.New(t)

	var evicted []string
	c := newTestCache(t, 2, 2, WithOnEvict[string, int](func(k string, _ int) {
		evicted = append(evicted, k)
	}))

	// Empty cache: nothing to evict.
	c.RemoveLRU()
	require.Empty(evicted)
	require.Zero(c.EntryCount())

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)
	_, _ = c.Get("a")

	c.RemoveLRU()
	require.NoError(c.verify())
	require.Equal([]string{"b"}, evicted)
	require.Equal([]string{"c", "a"}, c.Keys())

	// The freed way in slot 0 is filled before slot 1.
	c.Put("d", 4)
	require.Equal([][]string{{"a", "d"}, {"c"}}, c.SlotKeys())
	require.Equal(int64(1), c.Stats().Evictions())
}

func TestEvict(t *testing.T) {
	require := require.New(t)

	called := false
	c := newTestCache(t, 2, 1, WithOnEvict[int, int](func(int, int) {
		called = true
	}))
	c.Put(1, 1)
	c.Put(2, 2)

	c.Evict(1)
	c.Evict(42)
	require.NoError(c.verify())
	require.False(called)
	require.False(c.Contains(1))
	require.Equal(1, c.EntryCount())

	// Room was made without evicting 2.
	c.Put(3, 3)
	require.True(c.Contains(2))
	require.True(c.Contains(3))
	require.False(called)
}

func TestClear(t *testing.T) {
	require := require.New(t)

	called := false
	c := newTestCache(t, 2, 3, WithOnEvict[int, int](func(int, int) {
		called = true
	}))
	for i := 0; i < 6; i++ {
		c.Put(i, i)
	}

	c.Clear()
	require.NoError(c.verify())
	require.False(called)
	require.Zero(c.SlotCount())
	require.Zero(c.EntryCount())
	require.Empty(c.Keys())
	for i := 0; i < 6; i++ {
		_, ok := c.Get(i)
		require.False(ok)
	}

	// The cache is usable again and allocates slots from scratch.
	c.Put(10, 10)
	require.Equal(1, c.SlotCount())
	require.NoError(c.verify())

	c.Flush()
	require.Zero(c.Len())
}

func TestPortionFilled(t *testing.T) {
	require := require.New(t)

	c := newTestCache[int, int](t, 2, 2)
	require.Equal(0.0, c.PortionFilled())

	c.Put(1, 1)
	require.Equal(0.25, c.PortionFilled())

	for i := 2; i <= 10; i++ {
		c.Put(i, i)
	}
	require.Equal(1.0, c.PortionFilled())
	require.Equal(4, c.Len())
}

func TestStatistics(t *testing.T) {
	require := require.New(t)

	c := newTestCache[string, int](t, 1, 1)
	require.Zero(c.Stats().HitRatio())

	c.Put("a", 1)
	c.Put("b", 2)
	_, _ = c.Get("b")
	_, _ = c.Get("a")

	stats := c.Stats()
	require.Equal(int64(2), stats.Puts())
	require.Equal(int64(1), stats.Hits())
	require.Equal(int64(1), stats.Misses())
	require.Equal(int64(1), stats.Evictions())
	require.Equal(0.5, stats.HitRatio())
}

func TestLogsSlotAllocation(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := newTestCache(t, 1, 1, WithLogger[string, int](logger))
	c.Put("a", 1)
	c.Put("b", 2)

	out := buf.String()
	require.Contains(out, "allocated slot")
	require.Contains(out, "evicted least recently used entry")
	require.Contains(out, "key=a")
}

func TestNewFromConfig(t *testing.T) {
	require := require.New(t)

	c, err := NewFromConfig[int, int](DefaultConfig())
	require.NoError(err)
	require.Equal(4, c.Ways())
	require.Equal(256, c.Capacity())

	_, err = NewFromConfig[int, int](Config{Ways: 1})
	require.True(errors.Is(err, ErrInvalidConfig))
}
