// SPDX-License-Identifier: MIT

// Package lsq: functional configuration for Methods. This file defines:
//   - documented defaults (single source of truth),
//   - Option / Options (functional options, unexported state),
//   - WithX constructors that panic on nonsensical values (programmer error),
//   - gatherOptions, the only place defaults and setters are combined.
package lsq

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/katalvlaran/lstsq/metrics"
)

// ---------- Defaults ----------

const (
	// DefaultRankTolerance is the relative threshold below which a QR pivot
	// (|R_jj| against the column norm) or a row leverage complement (1-h)
	// is treated as zero.
	DefaultRankTolerance = 1e-10

	// DefaultSingularCutoff truncates singular values σ ≤ cutoff·σ_max in the
	// SVD pseudo-inverse.
	DefaultSingularCutoff = 1e-12

	// DefaultRecomputeRatio is the crossover of the update protocol: a full
	// recomputation runs when len(removed) > ratio·len(conserved).
	DefaultRecomputeRatio = 1.0

	// DefaultIncremental enables the incremental update path.
	DefaultIncremental = true

	// DefaultRobust makes Build prefer SVD regardless of shape.
	DefaultRobust = false

	// DefaultGramRowRatio is the N/K ratio from which Build picks Cholesky over QR.
	DefaultGramRowRatio = 50
)

// machineEpsilon is the float64 unit roundoff used to floor the Cholesky tolerance.
const machineEpsilon = 0x1p-52

const (
	panicRankTolerance  = "lsq: WithRankTolerance: tol must be finite and in (0, 1)"
	panicSingularCutoff = "lsq: WithSingularCutoff: cutoff must be finite and in [0, 1)"
	panicRecomputeRatio = "lsq: WithRecomputeRatio: ratio must be non-negative and not NaN"
	panicGramRowRatio   = "lsq: WithGramRowRatio: ratio must be ≥ 1"
)

// ---------- Option type ----------

// Option mutates Options. Constructors panic only on nonsensical values.
type Option func(*Options)

// Options is the effective configuration of a Method after applying Option setters.
type Options struct {
	rankTol        float64
	singularCutoff float64
	recomputeRatio float64
	incremental    bool
	robust         bool
	gramRowRatio   int

	logger  zerolog.Logger
	metrics *metrics.Collector
}

// RankTolerance returns the configured QR rank tolerance.
func (o Options) RankTolerance() float64 { return o.rankTol }

// SingularCutoff returns the configured SVD cutoff.
func (o Options) SingularCutoff() float64 { return o.singularCutoff }

// RecomputeRatio returns the configured crossover ratio.
func (o Options) RecomputeRatio() float64 { return o.recomputeRatio }

// Incremental reports whether the incremental update path is enabled.
func (o Options) Incremental() bool { return o.incremental }

// choleskyTolerance is the relative pivot threshold of the Gram factor.
// Forming the Gram matrix squares the condition number, so it never drops
// below √ε.
func (o Options) choleskyTolerance() float64 {
	return math.Max(o.rankTol, math.Sqrt(machineEpsilon))
}

// ---------- Constructors ----------

// WithRankTolerance sets the relative rank threshold used by QR (and as a
// floor by Cholesky).
func WithRankTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 || tol >= 1 {
		panic(panicRankTolerance)
	}

	return func(o *Options) { o.rankTol = tol }
}

// WithSingularCutoff sets the relative singular-value cutoff of the SVD strategy.
// A zero cutoff keeps every non-zero singular value.
func WithSingularCutoff(cutoff float64) Option {
	if math.IsNaN(cutoff) || math.IsInf(cutoff, 0) || cutoff < 0 || cutoff >= 1 {
		panic(panicSingularCutoff)
	}

	return func(o *Options) { o.singularCutoff = cutoff }
}

// WithRecomputeRatio sets the crossover between the incremental and the full
// recompute path. +Inf recomputes only when nothing is conserved.
func WithRecomputeRatio(ratio float64) Option {
	if math.IsNaN(ratio) || ratio < 0 {
		panic(panicRecomputeRatio)
	}

	return func(o *Options) { o.recomputeRatio = ratio }
}

// WithIncremental enables or disables the incremental update path.
// With false every Update recomputes the factorization from scratch.
func WithIncremental(enabled bool) Option {
	return func(o *Options) { o.incremental = enabled }
}

// WithRobust makes Build choose SVD under "auto".
func WithRobust() Option {
	return func(o *Options) { o.robust = true }
}

// WithGramRowRatio sets the N/K ratio from which "auto" picks Cholesky.
func WithGramRowRatio(ratio int) Option {
	if ratio < 1 {
		panic(panicGramRowRatio)
	}

	return func(o *Options) { o.gramRowRatio = ratio }
}

// WithLogger sets the logger. Methods log update paths at debug level and
// rank truncation at warn level.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithMetrics records update paths, failures and factorization time in m.
func WithMetrics(m *metrics.Collector) Option {
	return func(o *Options) { o.metrics = m }
}

// gatherOptions applies opts over the defaults.
func gatherOptions(opts ...Option) Options {
	o := Options{
		rankTol:        DefaultRankTolerance,
		singularCutoff: DefaultSingularCutoff,
		recomputeRatio: DefaultRecomputeRatio,
		incremental:    DefaultIncremental,
		robust:         DefaultRobust,
		gramRowRatio:   DefaultGramRowRatio,
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// ResolveOptions returns the effective configuration for opts.
func ResolveOptions(opts ...Option) Options { return gatherOptions(opts...) }
