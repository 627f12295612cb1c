// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/luxfi/nwaycache/setassoc"
)

const demoKeys = 10

// runDemo inserts keys 1..10 into a 1-way cache of 8 slots and a 2-way cache
// of 3 slots, then reads every key back.
func runDemo(out io.Writer, logger *slog.Logger) error {
	for _, shape := range []setassoc.Config{
		{Ways: 1, Capacity: 8},
		{Ways: 2, Capacity: 3},
	} {
		if err := demoShape(out, logger, shape); err != nil {
			return err
		}
	}
	return nil
}

func demoShape(out io.Writer, logger *slog.Logger, shape setassoc.Config) error {
	c, err := setassoc.NewFromConfig(shape, setassoc.WithLogger[int, int](logger))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d-way cache with %d slots: adding keys 1..%d\n", shape.Ways, shape.Capacity, demoKeys)
	for i := 1; i <= demoKeys; i++ {
		c.Put(i, i)
	}

	for key := 1; key <= demoKeys; key++ {
		value, ok := c.Get(key)
		if !ok {
			fmt.Fprintf(out, "key %d: evicted\n", key)
			continue
		}
		fmt.Fprintf(out, "key %d: value %d\n", key, value)
	}

	slots, entries := c.Size()
	fmt.Fprintf(out, "slots: %d entries: %d\n\n", slots, entries)
	return nil
}
