package setassoc

import "fmt"

// verify checks every structural invariant of the cache.
func (c *Cache[K, V]) verify() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if len(c.slots) > c.capacity {
		return fmt.Errorf("%d slots exceed capacity %d", len(c.slots), c.capacity)
	}

	resident := make(map[K]int)
	for i, s := range c.slots {
		if s.id != i {
			return fmt.Errorf("slot at %d has id %d", i, s.id)
		}
		if s.Len() > c.ways {
			return fmt.Errorf("slot %d holds %d entries, ways is %d", i, s.Len(), c.ways)
		}
		if s.order.len != len(s.members) {
			return fmt.Errorf("slot %d ring has %d entries, map has %d", i, s.order.len, len(s.members))
		}

		var ringErr error
		walked := 0
		c.nodes.walk(&s.order, func(h handle) bool {
			walked++
			nd := c.nodes.get(h)
			if got, ok := s.members[nd.entry.Key]; !ok || got != h {
				ringErr = fmt.Errorf("slot %d ring key %v not in map", i, nd.entry.Key)
				return false
			}
			if nd.slot != i {
				ringErr = fmt.Errorf("key %v in slot %d records slot %d", nd.entry.Key, i, nd.slot)
				return false
			}
			return true
		})
		if ringErr != nil {
			return ringErr
		}
		if walked != s.order.len {
			return fmt.Errorf("slot %d ring walked %d of %d", i, walked, s.order.len)
		}

		for k := range s.members {
			if c.index[k] != s {
				return fmt.Errorf("index does not map %v to slot %d", k, i)
			}
			resident[k]++
		}
	}

	if len(c.index) != len(resident) {
		return fmt.Errorf("index has %d keys, slots hold %d", len(c.index), len(resident))
	}

	var globalErr error
	walked := 0
	c.nodes.walk(&c.nodes.global, func(h handle) bool {
		walked++
		k := c.nodes.get(h).entry.Key
		resident[k]--
		if resident[k] != 0 {
			globalErr = fmt.Errorf("key %v appears in global order but not exactly once in slots", k)
			return false
		}
		return true
	})
	if globalErr != nil {
		return globalErr
	}
	if walked != len(c.index) || c.nodes.global.len != walked {
		return fmt.Errorf("global order has %d entries (len %d), cache holds %d", walked, c.nodes.global.len, len(c.index))
	}
	return nil
}
