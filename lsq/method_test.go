// SPDX-License-Identifier: MIT
package lsq_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lstsq/lsq"
)

func square(x float64) float64 { return x * x }

// TestMonomialScenario: 5 monomials on 20 points, fit x² with {1, x, x²},
// then add x³ which must not pick up any signal.
func TestMonomialScenario(t *testing.T) {
	for _, st := range strategies {
		t.Run(st.name, func(t *testing.T) {
			p := MustProxy(t, 20, 4)
			rhs := rhsOf(t, p, square)
			m := MustMethod(t, st.build, p, nil, []int{0, 1, 2})
			assert.Equal(t, st.name, m.Name())
			assert.Equal(t, 3, m.Rank())

			x := MustSolve(t, m, rhs)
			require.Len(t, x, 3)
			for j, want := range []float64{0, 0, 1} {
				assert.InDelta(t, want, x[j], 1e-9, "coefficient %d", j)
			}

			require.NoError(t, m.Update([]int{3}, []int{0, 1, 2}, nil, false))
			assert.Equal(t, []int{0, 1, 2, 3}, m.CurrentIndices())
			x = MustSolve(t, m, rhs)
			require.Len(t, x, 4)
			assert.InDelta(t, 0, x[3], 1e-6)
			assert.InDelta(t, 1, x[2], 1e-6)
		})
	}
}

func TestResidualOrthogonality(t *testing.T) {
	for _, st := range strategies {
		t.Run(st.name, func(t *testing.T) {
			p := MustProxy(t, 20, 4)
			rhs := rhsOf(t, p, func(x float64) float64 { return math.Sin(3*x) + 0.1*x })
			m := MustMethod(t, st.build, p, rampWeights(20), []int{0, 1, 2, 3})

			x := MustSolve(t, m, rhs)
			assert.Less(t, normalResidual(t, m, x, rhs), 1e-8)

			xn, err := m.SolveNormal(rhs)
			require.NoError(t, err)
			requireClose(t, x, xn, 1e-7)
		})
	}
}

func TestDiagnostics(t *testing.T) {
	for _, st := range strategies {
		t.Run(st.name, func(t *testing.T) {
			p := MustProxy(t, 20, 4)
			m := MustMethod(t, st.build, p, rampWeights(20), []int{2, 0, 1})

			h, err := m.HDiag()
			require.NoError(t, err)
			require.Len(t, h, 20)
			assert.InDelta(t, 3, floats.Sum(h), 1e-9) // trace of a rank-3 projection
			for i, v := range h {
				assert.True(t, v >= -1e-12 && v <= 1+1e-12, "leverage %d = %g", i, v)
			}

			diag, err := m.GramInverseDiag()
			require.NoError(t, err)
			inv := gramInverse(t, m)
			for j := range diag {
				assert.InEpsilon(t, inv.At(j, j), diag[j], 1e-7, "diag %d", j)
			}

			tr, err := m.GramInverseTrace()
			require.NoError(t, err)
			assert.InDelta(t, floats.Sum(diag), tr, 1e-12*math.Max(1, tr))
		})
	}
}

func TestAccessors(t *testing.T) {
	p := MustProxy(t, 10, 3)
	w := rampWeights(10)
	m := MustMethod(t, lsq.NewQR, p, w, []int{1, 0})

	assert.Same(t, p, m.Proxy())
	assert.Same(t, p.Sample(), m.InputSample())
	assert.Same(t, p.Basis(), m.Basis())
	assert.Equal(t, w, m.Weights())
	assert.Equal(t, []int{1, 0}, m.InitialIndices())
	assert.Equal(t, []int{1, 0}, m.CurrentIndices())
	assert.Len(t, m.ActiveRows(), 10)
	assert.NotEmpty(t, m.ID())

	fns, err := m.CurrentBasis()
	require.NoError(t, err)
	require.Len(t, fns, 2)
	assert.Equal(t, 0.5, fns[0].Evaluate([]float64{0.5}))

	// returned slices are copies
	m.CurrentIndices()[0] = 3
	m.Weights()[0] = 100
	assert.Equal(t, []int{1, 0}, m.CurrentIndices())
	assert.Equal(t, w[0], m.Weights()[0])

	require.NoError(t, m.Update([]int{3}, []int{1, 0}, nil, false))
	assert.Equal(t, []int{1, 0}, m.InitialIndices())
}

func TestComputeWeightedDesign(t *testing.T) {
	p := MustProxy(t, 6, 3)
	w := []float64{1, 4, 9, 0, 1, 1}
	m := MustMethod(t, lsq.NewQR, p, w, []int{0, 2})

	a, err := m.ComputeWeightedDesign(false)
	require.NoError(t, err)
	r, c := a.Dims()
	require.Equal(t, 6, r)
	require.Equal(t, 2, c)
	assert.Equal(t, 2.0, a.At(1, 0)) // √4 · 1
	assert.Equal(t, 3.0, a.At(2, 0))
	assert.Equal(t, 0.0, a.At(3, 0))
	x2, _ := p.Sample().At(1, 0)
	assert.InDelta(t, 2*x2*x2, a.At(1, 1), 1e-15)

	whole, err := m.ComputeWeightedDesign(true)
	require.NoError(t, err)
	_, c = whole.Dims()
	assert.Equal(t, 4, c)
	assert.Equal(t, a.At(2, 1), whole.At(2, 2))
}

func TestSolve_DimensionMismatch(t *testing.T) {
	for _, st := range strategies {
		t.Run(st.name, func(t *testing.T) {
			m := MustMethod(t, st.build, MustProxy(t, 10, 2), nil, []int{0, 1})
			_, err := m.Solve(make([]float64, 9))
			assert.ErrorIs(t, err, lsq.ErrDimensionMismatch)
			assert.NotErrorIs(t, err, lsq.ErrConditioning)
			_, err = m.SolveNormal(make([]float64, 11))
			assert.ErrorIs(t, err, lsq.ErrDimensionMismatch)
		})
	}
}

func TestBuild_Validation(t *testing.T) {
	p := MustProxy(t, 10, 2)
	_, err := lsq.NewQR(nil, nil, []int{0})
	assert.ErrorIs(t, err, lsq.ErrNilProxy)

	_, err = lsq.NewQR(p, make([]float64, 9), []int{0})
	assert.ErrorIs(t, err, lsq.ErrInvalidWeights)
	w := rampWeights(10)
	w[3] = -1
	_, err = lsq.NewCholesky(p, w, []int{0})
	assert.ErrorIs(t, err, lsq.ErrInvalidWeights)

	_, err = lsq.NewSVD(p, nil, []int{0, 3})
	assert.ErrorIs(t, err, lsq.ErrOutOfRange)
	assert.ErrorIs(t, err, lsq.ErrDimensionMismatch)

	_, err = lsq.NewQR(p, nil, []int{1, 1})
	assert.ErrorIs(t, err, lsq.ErrInvalidPartition)
}

func TestEmptyInitialSet(t *testing.T) {
	for _, st := range strategies {
		t.Run(st.name, func(t *testing.T) {
			p := MustProxy(t, 10, 2)
			m := MustMethod(t, st.build, p, nil, nil)
			assert.Equal(t, 0, m.Rank())
			_, err := m.Solve(make([]float64, 10))
			assert.ErrorIs(t, err, lsq.ErrDegenerate)

			require.NoError(t, m.Update([]int{0, 1}, nil, nil, false))
			x := MustSolve(t, m, rhsOf(t, p, func(x float64) float64 { return 2 + 3*x }))
			requireClose(t, []float64{2, 3}, x, 1e-10)
		})
	}
}
