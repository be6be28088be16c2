package analytics

import (
	"cmp"
	"slices"

	"behaviorlytics/api/models"
)

// counter tallies keys and remembers the order in which they were first seen.
type counter[K comparable] struct {
	counts map[K]int
	order  []K
}

func newCounter[K comparable]() *counter[K] {
	return &counter[K]{counts: make(map[K]int)}
}

func (c *counter[K]) add(k K) {
	if _, ok := c.counts[k]; !ok {
		c.order = append(c.order, k)
	}
	c.counts[k]++
}

func (c *counter[K]) len() int {
	return len(c.order)
}

// firstMax returns the key with the highest count. Ties go to the key seen first.
func (c *counter[K]) firstMax() (K, int, bool) {
	var (
		best  K
		count int
	)
	for _, k := range c.order {
		if n := c.counts[k]; n > count {
			best, count = k, n
		}
	}
	return best, count, count > 0
}

// topByCount ranks string keys by count descending, then key ascending, and
// keeps at most n entries. n <= 0 keeps all of them.
func topByCount(c *counter[string], n int) models.OrderedCounts {
	out := make(models.OrderedCounts, 0, c.len())
	for _, k := range c.order {
		out = append(out, models.CountEntry{Key: k, Count: c.counts[k]})
	}
	slices.SortStableFunc(out, func(a, b models.CountEntry) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.Key, b.Key)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// peakIndex returns the bucket with the highest count, preferring the smallest index.
func peakIndex(buckets []int) (int, int) {
	best := 0
	for i, n := range buckets {
		if n > buckets[best] {
			best = i
		}
	}
	return best, buckets[best]
}
