// SPDX-License-Identifier: MIT
package lsq_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lstsq/basis"
	"github.com/katalvlaran/lstsq/design"
	"github.com/katalvlaran/lstsq/lsq"
	"github.com/katalvlaran/lstsq/sample"
)

type buildFunc func(p *design.Proxy, w []float64, indices []int, opts ...lsq.Option) (lsq.Method, error)

// strategies lists every strategy constructor.
var strategies = []struct {
	name  string
	build buildFunc
}{
	{lsq.StrategyQR, lsq.NewQR},
	{lsq.StrategyCholesky, lsq.NewCholesky},
	{lsq.StrategySVD, lsq.NewSVD},
}

// MustProxy returns a proxy over n equally spaced points in [0,1] and the
// monomials of degree ≤ deg.
func MustProxy(t testing.TB, n, deg int) *design.Proxy {
	t.Helper()
	s, err := sample.Linspace(n, 0, 1)
	require.NoError(t, err)
	b, err := basis.Monomials(deg)
	require.NoError(t, err)
	p, err := design.NewProxy(s, b)
	require.NoError(t, err)

	return p
}

// MustMethod fails the test on a construction error.
func MustMethod(t testing.TB, build buildFunc, p *design.Proxy, w []float64, indices []int, opts ...lsq.Option) lsq.Method {
	t.Helper()
	m, err := build(p, w, indices, opts...)
	require.NoError(t, err)

	return m
}

// MustSolve fails the test on a solve error.
func MustSolve(t testing.TB, m lsq.Method, rhs []float64) []float64 {
	t.Helper()
	x, err := m.Solve(rhs)
	require.NoError(t, err)

	return x
}

// rhsOf evaluates f on the first coordinate of every sample point.
func rhsOf(t testing.TB, p *design.Proxy, f func(x float64) float64) []float64 {
	t.Helper()
	xs, err := p.Sample().Column(0)
	require.NoError(t, err)
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = f(x)
	}

	return out
}

// rampWeights returns strictly positive, non-uniform weights.
func rampWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 + float64(i%7)/3
	}

	return w
}

// normalResidual returns ‖Ãᵀ(Ãx − √W·rhs)‖₂.
func normalResidual(t testing.TB, m lsq.Method, x, rhs []float64) float64 {
	t.Helper()
	a, err := m.ComputeWeightedDesign(false)
	require.NoError(t, err)
	n, _ := a.Dims()
	b := make([]float64, n)
	w := m.Weights()
	active := make([]bool, n)
	for _, i := range m.ActiveRows() {
		active[i] = true
	}
	for i := range b {
		if active[i] {
			b[i] = math.Sqrt(w[i]) * rhs[i]
		}
	}
	var r mat.VecDense
	r.MulVec(a, mat.NewVecDense(len(x), x))
	r.SubVec(&r, mat.NewVecDense(n, b))
	var g mat.VecDense
	g.MulVec(a.T(), &r)

	return mat.Norm(&g, 2)
}

// gramInverse returns (ÃᵀÃ)⁻¹ computed densely.
func gramInverse(t testing.TB, m lsq.Method) *mat.Dense {
	t.Helper()
	a, err := m.ComputeWeightedDesign(false)
	require.NoError(t, err)
	var g, inv mat.Dense
	g.Mul(a.T(), a)
	require.NoError(t, inv.Inverse(&g))

	return &inv
}

func requireClose(t testing.TB, want, got []float64, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	require.True(t, floats.EqualApprox(want, got, tol), "want %v got %v", want, got)
}

func allRowsExcept(n int, drop ...int) []int {
	skip := make(map[int]bool, len(drop))
	for _, d := range drop {
		skip[d] = true
	}
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !skip[i] {
			out = append(out, i)
		}
	}

	return out
}
