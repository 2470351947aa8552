// SPDX-License-Identifier: MIT

package lsq

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lstsq/design"
)

// CandidateFit is the outcome of fitting one candidate active set.
type CandidateFit struct {
	Indices              []int
	Coefficients         []float64
	ResidualSumOfSquares float64 // Σ w_i (a_iᵀx − rhs_i)²
	GramInverseTrace     float64
	Rank                 int
	Err                  error // construction or solve failure of this candidate
}

// FitCandidates builds one Method per candidate active set and solves rhs on
// each, concurrently, over the shared proxy cache. A failing candidate records
// its error in CandidateFit.Err; only cancellation of ctx aborts the batch.
// Results keep the order of candidates.
func FitCandidates(ctx context.Context, name string, p *design.Proxy, weights []float64,
	candidates [][]int, rhs []float64, opts ...Option) ([]CandidateFit, error) {
	if p == nil {
		return nil, lsqErrorf(opCandidates, ErrNilProxy)
	}
	out := make([]CandidateFit, len(candidates))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for c, indices := range candidates {
		c, indices := c, indices // per-iteration copies (go 1.21 loop semantics)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[c] = fitCandidate(name, p, weights, indices, rhs, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, lsqErrorf(opCandidates, err)
	}

	return out, nil
}

func fitCandidate(name string, p *design.Proxy, weights []float64, indices []int, rhs []float64, opts []Option) CandidateFit {
	fit := CandidateFit{Indices: append([]int(nil), indices...)}
	m, err := Build(name, p, weights, indices, opts...)
	if err != nil {
		fit.Err = err
		return fit
	}
	x, err := m.Solve(rhs)
	if err != nil {
		fit.Err = err
		return fit
	}
	fit.Coefficients, fit.Rank = x, m.Rank()
	if fit.GramInverseTrace, err = m.GramInverseTrace(); err != nil {
		fit.Err = err
		return fit
	}
	fit.ResidualSumOfSquares, fit.Err = residualSumOfSquares(m, x, rhs)

	return fit
}

// residualSumOfSquares returns Σ w_i (a_iᵀx − rhs_i)² over the active rows of m.
func residualSumOfSquares(m Method, x, rhs []float64) (float64, error) {
	cols, err := m.Proxy().Columns(m.CurrentIndices())
	if err != nil {
		return 0, err
	}
	w := m.Weights()
	res := make([]float64, len(rhs))
	copy(res, rhs)
	floats.Scale(-1, res)
	for j, c := range cols {
		floats.AddScaled(res, x[j], c)
	}
	rss := 0.0
	for _, i := range m.ActiveRows() {
		rss += w[i] * res[i] * res[i]
	}

	return rss, nil
}
