// SPDX-License-Identifier: MIT

package design

import (
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lstsq/basis"
	"github.com/katalvlaran/lstsq/metrics"
	"github.com/katalvlaran/lstsq/sample"
)

// Option configures a Proxy.
type Option func(*options)

type options struct {
	logger  zerolog.Logger
	metrics *metrics.Collector
	cache   *Cache
}

// WithLogger sets the logger used for cache-miss debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics records cache hits and misses in m.
func WithMetrics(m *metrics.Collector) Option {
	return func(o *options) { o.metrics = m }
}

// WithCache shares an existing cache. It must have been created for the same
// sample and basis.
func WithCache(c *Cache) Option {
	if c == nil {
		panic("design: WithCache: nil cache")
	}

	return func(o *options) { o.cache = c }
}

// Proxy evaluates design columns on demand through a shared Cache.
// It is safe for concurrent use.
type Proxy struct {
	sample  *sample.Sample
	basis   *basis.Basis
	cache   *Cache
	logger  zerolog.Logger
	metrics *metrics.Collector
}

// NewProxy binds a sample and a basis.
//
// Errors: ErrNilSample, ErrNilBasis, ErrDimensionMismatch, ErrCacheMismatch.
func NewProxy(s *sample.Sample, b *basis.Basis, opts ...Option) (*Proxy, error) {
	if s == nil {
		return nil, ErrNilSample
	}
	if b == nil {
		return nil, ErrNilBasis
	}
	if s.Dim() != b.Dim() {
		return nil, fmt.Errorf("NewProxy: sample dim %d, basis dim %d: %w", s.Dim(), b.Dim(), ErrDimensionMismatch)
	}
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	c := o.cache
	if c == nil {
		c = NewCache(s, b)
	} else if c.sample != s || c.basis != b {
		return nil, fmt.Errorf("NewProxy: %w", ErrCacheMismatch)
	}

	return &Proxy{
		sample:  s,
		basis:   b,
		cache:   c,
		logger:  o.logger.With().Str("component", "design").Logger(),
		metrics: o.metrics,
	}, nil
}

// Sample returns the bound sample.
func (p *Proxy) Sample() *sample.Sample { return p.sample }

// Basis returns the bound catalogue.
func (p *Proxy) Basis() *basis.Basis { return p.basis }

// Cache returns the shared column cache.
func (p *Proxy) Cache() *Cache { return p.cache }

// Size returns the number of sample points N.
func (p *Proxy) Size() int { return p.sample.Size() }

// BasisSize returns the catalogue size M.
func (p *Proxy) BasisSize() int { return p.basis.Size() }

// Stats returns the cache counters.
func (p *Proxy) Stats() CacheStats { return p.cache.Stats() }

// Column returns the cached evaluation of basis[index] on the whole sample.
// The slice is shared: callers must not modify it.
func (p *Proxy) Column(index int) ([]float64, error) {
	if index < 0 || index >= p.basis.Size() {
		return nil, fmt.Errorf("Column(%d): %w", index, ErrOutOfRange)
	}
	col, evaluated := p.cache.get(index)
	if evaluated {
		p.metrics.CacheMiss()
		p.logger.Debug().Int("index", index).Int("rows", len(col)).Msg("column evaluated")
	} else {
		p.metrics.CacheHit()
	}

	return col, nil
}

// Columns returns the shared cached columns for indices, in order.
func (p *Proxy) Columns(indices []int) ([][]float64, error) {
	out := make([][]float64, len(indices))
	for k, j := range indices {
		col, err := p.Column(j)
		if err != nil {
			return nil, err
		}
		out[k] = col
	}

	return out, nil
}

// Evaluate returns the N×len(indices) design matrix; column k is basis[indices[k]].
//
// Errors: ErrEmptyIndices, ErrOutOfRange.
func (p *Proxy) Evaluate(indices []int) (*mat.Dense, error) {
	if len(indices) == 0 {
		return nil, ErrEmptyIndices
	}
	cols, err := p.Columns(indices)
	if err != nil {
		return nil, err
	}
	n := p.sample.Size()
	out := mat.NewDense(n, len(indices), nil)
	for k, col := range cols {
		out.SetCol(k, col)
	}

	return out, nil
}

// EvaluateRows is Evaluate restricted to the given sample rows, in order.
//
// Errors: ErrEmptyIndices (no rows or no indices), ErrOutOfRange.
func (p *Proxy) EvaluateRows(rows, indices []int) (*mat.Dense, error) {
	if len(indices) == 0 || len(rows) == 0 {
		return nil, ErrEmptyIndices
	}
	n := p.sample.Size()
	for _, r := range rows {
		if r < 0 || r >= n {
			return nil, fmt.Errorf("EvaluateRows: row %d: %w", r, ErrOutOfRange)
		}
	}
	cols, err := p.Columns(indices)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(len(rows), len(indices), nil)
	for k, col := range cols {
		for i, r := range rows {
			out.Set(i, k, col[r])
		}
	}

	return out, nil
}
