// SPDX-License-Identifier: MIT

package design

import (
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/katalvlaran/lstsq/basis"
	"github.com/katalvlaran/lstsq/sample"
)

// CacheStats is a snapshot of cache activity.
type CacheStats struct {
	Hits    int64 // lookups answered without evaluating
	Misses  int64 // columns actually evaluated
	Entries int   // distinct cached columns
}

// Cache maps catalogue index to the column evaluated on the whole sample.
// It is bound to one sample/basis pair and safe for concurrent use.
type Cache struct {
	mu     sync.RWMutex
	cols   map[int][]float64
	flight singleflight.Group

	sample *sample.Sample
	basis  *basis.Basis

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache returns an empty cache for the given sample and basis.
func NewCache(s *sample.Sample, b *basis.Basis) *Cache {
	return &Cache{
		cols:   make(map[int][]float64),
		sample: s,
		basis:  b,
	}
}

// Stats returns the current counters.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	n := len(c.cols)
	c.mu.RUnlock()

	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: n}
}

// Contains reports whether index is already cached.
func (c *Cache) Contains(index int) bool {
	c.mu.RLock()
	_, ok := c.cols[index]
	c.mu.RUnlock()

	return ok
}

func (c *Cache) lookup(index int) ([]float64, bool) {
	c.mu.RLock()
	col, ok := c.cols[index]
	c.mu.RUnlock()

	return col, ok
}

// get returns the column for index, evaluating it at most once.
// The second result is true when this call performed the evaluation.
func (c *Cache) get(index int) ([]float64, bool) {
	if col, ok := c.lookup(index); ok {
		c.hits.Add(1)
		return col, false
	}

	evaluated := false
	v, _, _ := c.flight.Do(strconv.Itoa(index), func() (interface{}, error) {
		// a previous flight may have finished between lookup and Do
		if col, ok := c.lookup(index); ok {
			return col, nil
		}
		col := c.evaluate(index)
		c.mu.Lock()
		c.cols[index] = col
		c.mu.Unlock()
		evaluated = true

		return col, nil
	})
	if evaluated {
		c.misses.Add(1)
	} else {
		c.hits.Add(1)
	}

	return v.([]float64), evaluated
}

// evaluate computes basis[index] on every sample point; index must be valid.
func (c *Cache) evaluate(index int) []float64 {
	f, _ := c.basis.Function(index)
	n := c.sample.Size()
	col := make([]float64, n)
	x := make([]float64, c.sample.Dim())
	for i := 0; i < n; i++ {
		x = c.sample.Values(i, x)
		col[i] = f.Evaluate(x)
	}

	return col
}
