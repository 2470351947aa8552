// SPDX-License-Identifier: MIT
package lsq_test

import (
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lstsq/lsq"
	"github.com/katalvlaran/lstsq/metrics"
)

type snapshot struct {
	x, h, diag []float64
	trace      float64
}

func takeSnapshot(t *testing.T, m lsq.Method, rhs []float64) snapshot {
	t.Helper()
	var s snapshot
	var err error
	s.x = MustSolve(t, m, rhs)
	s.h, err = m.HDiag()
	require.NoError(t, err)
	s.diag, err = m.GramInverseDiag()
	require.NoError(t, err)
	s.trace, err = m.GramInverseTrace()
	require.NoError(t, err)

	return s
}

func TestUpdate_EmptyIsNoop(t *testing.T) {
	for _, st := range strategies {
		t.Run(st.name, func(t *testing.T) {
			p := MustProxy(t, 20, 4)
			rhs := rhsOf(t, p, math.Exp)
			m := MustMethod(t, st.build, p, rampWeights(20), []int{0, 3, 1})
			before := takeSnapshot(t, m, rhs)

			require.NoError(t, m.Update(nil, []int{0, 3, 1}, nil, false))
			require.NoError(t, m.Update(nil, m.ActiveRows(), nil, true))
			assert.Equal(t, before, takeSnapshot(t, m, rhs))
			assert.Equal(t, []int{0, 3, 1}, m.CurrentIndices())
		})
	}
}

func TestUpdate_RoundTrip(t *testing.T) {
	for _, st := range strategies {
		t.Run(st.name, func(t *testing.T) {
			p := MustProxy(t, 20, 4)
			w := rampWeights(20)
			rhs := rhsOf(t, p, func(x float64) float64 { return math.Cos(2 * x) })
			m := MustMethod(t, st.build, p, w, []int{0, 1}, lsq.WithRecomputeRatio(10))

			require.NoError(t, m.Update([]int{2, 4}, []int{0, 1}, nil, false))
			require.NoError(t, m.Update([]int{3}, []int{0, 1, 2, 4}, nil, false))
			require.NoError(t, m.Update(nil, []int{0, 1}, []int{2, 4, 3}, false))
			assert.Equal(t, []int{0, 1}, m.CurrentIndices())

			fresh := MustMethod(t, st.build, p, w, []int{0, 1})
			want, got := takeSnapshot(t, fresh, rhs), takeSnapshot(t, m, rhs)
			requireClose(t, want.x, got.x, 1e-9)
			requireClose(t, want.h, got.h, 1e-9)
			requireClose(t, want.diag, got.diag, 1e-9)
		})
	}
}

func TestUpdate_RemoveMiddleColumn(t *testing.T) {
	for _, st := range strategies {
		t.Run(st.name, func(t *testing.T) {
			p := MustProxy(t, 20, 4)
			w := rampWeights(20)
			rhs := rhsOf(t, p, math.Exp)
			m := MustMethod(t, st.build, p, w, []int{0, 1, 2, 3}, lsq.WithRecomputeRatio(10))

			require.NoError(t, m.Update([]int{4}, []int{0, 2, 3}, []int{1}, false))
			fresh := MustMethod(t, st.build, p, w, []int{0, 2, 3, 4})
			requireClose(t, MustSolve(t, fresh, rhs), MustSolve(t, m, rhs), 1e-8)
		})
	}
}

func TestUpdate_RemoveEverythingIsDegenerate(t *testing.T) {
	for _, st := range strategies {
		t.Run(st.name, func(t *testing.T) {
			p := MustProxy(t, 20, 4)
			rhs := rhsOf(t, p, square)
			m := MustMethod(t, st.build, p, nil, []int{0, 1, 2})

			require.NoError(t, m.Update(nil, nil, []int{2, 0, 1}, false))
			assert.Empty(t, m.CurrentIndices())

			_, err := m.Solve(rhs)
			assert.ErrorIs(t, err, lsq.ErrDegenerate)
			assert.ErrorIs(t, err, lsq.ErrConditioning)
			// the degenerate check wins over the length check
			_, err = m.Solve(rhs[:3])
			assert.ErrorIs(t, err, lsq.ErrDegenerate)
			assert.NotErrorIs(t, err, lsq.ErrDimensionMismatch)
			_, err = m.SolveNormal(rhs)
			assert.ErrorIs(t, err, lsq.ErrDegenerate)
			_, err = m.HDiag()
			assert.ErrorIs(t, err, lsq.ErrDegenerate)
			_, err = m.GramInverseTrace()
			assert.ErrorIs(t, err, lsq.ErrDegenerate)
			_, err = m.ComputeWeightedDesign(false)
			assert.ErrorIs(t, err, lsq.ErrDegenerate)
		})
	}
}

func TestUpdate_InvalidPartition(t *testing.T) {
	cases := []struct {
		name                      string
		added, conserved, removed []int
		want                      error
	}{
		{"out of range", []int{5}, []int{0, 1, 2}, nil, lsq.ErrOutOfRange},
		{"negative", []int{-1}, []int{0, 1, 2}, nil, lsq.ErrOutOfRange},
		{"duplicate across sets", []int{3}, []int{0, 1, 2}, []int{2}, lsq.ErrInvalidPartition},
		{"duplicate inside set", []int{3, 3}, []int{0, 1, 2}, nil, lsq.ErrInvalidPartition},
		{"missing conserved", nil, []int{0, 1}, nil, lsq.ErrInvalidPartition},
		{"added already active", []int{1}, []int{0, 2}, []int{1}, lsq.ErrInvalidPartition},
		{"removed not active", nil, []int{0, 1, 2}, []int{4}, lsq.ErrInvalidPartition},
		{"reordered", nil, []int{0, 2, 1}, nil, lsq.ErrInvalidPartition},
		{"conserved not active", nil, []int{0, 1, 3}, []int{2}, lsq.ErrInvalidPartition},
	}
	for _, st := range strategies {
		for _, tc := range cases {
			t.Run(st.name+"/"+tc.name, func(t *testing.T) {
				p := MustProxy(t, 20, 4)
				rhs := rhsOf(t, p, square)
				m := MustMethod(t, st.build, p, nil, []int{0, 1, 2})
				before := takeSnapshot(t, m, rhs)

				err := m.Update(tc.added, tc.conserved, tc.removed, false)
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.want)
				assert.ErrorIs(t, err, lsq.ErrDimensionMismatch)
				assert.Equal(t, []int{0, 1, 2}, m.CurrentIndices())
				assert.Equal(t, before, takeSnapshot(t, m, rhs))
			})
		}
	}
}

// TestUpdate_PathsAgree runs the same sequence on the incremental and the
// recompute path and checks both were really taken.
func TestUpdate_PathsAgree(t *testing.T) {
	type step struct{ added, conserved, removed []int }
	steps := []step{
		{[]int{2}, []int{0, 1}, nil},
		{[]int{4, 3}, []int{0, 1, 2}, nil},
		{nil, []int{0, 2, 4, 3}, []int{1}},
		{[]int{1}, []int{0, 2, 3}, []int{4}},
	}
	for _, st := range strategies[:2] {
		t.Run(st.name, func(t *testing.T) {
			p := MustProxy(t, 25, 4)
			w := rampWeights(25)
			rhs := rhsOf(t, p, math.Exp)

			incM := metrics.NewCollector(prometheus.NewRegistry())
			recM := metrics.NewCollector(prometheus.NewRegistry())
			inc := MustMethod(t, st.build, p, w, []int{0, 1}, lsq.WithMetrics(incM))
			rec := MustMethod(t, st.build, p, w, []int{0, 1}, lsq.WithMetrics(recM), lsq.WithIncremental(false))
			for i, s := range steps {
				require.NoError(t, inc.Update(s.added, s.conserved, s.removed, false), "step %d", i)
				require.NoError(t, rec.Update(s.added, s.conserved, s.removed, false), "step %d", i)
				assert.Equal(t, rec.CurrentIndices(), inc.CurrentIndices())
				a, b := takeSnapshot(t, inc, rhs), takeSnapshot(t, rec, rhs)
				requireClose(t, b.x, a.x, 1e-8)
				requireClose(t, b.h, a.h, 1e-9)
				requireClose(t, b.diag, a.diag, 1e-7)
			}

			label := map[string]string{lsq.StrategyQR: "qr", lsq.StrategyCholesky: "cholesky"}[st.name]
			assert.Equal(t, float64(len(steps)), incM.UpdateCount(label, metrics.ModeColumn, metrics.PathIncremental))
			assert.Zero(t, incM.UpdateCount(label, metrics.ModeColumn, metrics.PathRecompute))
			assert.Equal(t, float64(len(steps)), recM.UpdateCount(label, metrics.ModeColumn, metrics.PathRecompute))
			assert.Zero(t, recM.UpdateCount(label, metrics.ModeColumn, metrics.PathIncremental))
		})
	}
}

func TestUpdate_Crossover(t *testing.T) {
	p := MustProxy(t, 20, 4)
	reg := metrics.NewCollector(prometheus.NewRegistry())
	m := MustMethod(t, lsq.NewQR, p, nil, []int{0, 1, 2, 3}, lsq.WithMetrics(reg))

	// 3 removed > 1.0 · 1 conserved
	require.NoError(t, m.Update(nil, []int{0}, []int{1, 2, 3}, false))
	assert.Equal(t, 1.0, reg.UpdateCount("qr", metrics.ModeColumn, metrics.PathRecompute))
	// nothing conserved
	require.NoError(t, m.Update([]int{4}, nil, []int{0}, false))
	assert.Equal(t, 2.0, reg.UpdateCount("qr", metrics.ModeColumn, metrics.PathRecompute))
	// 0 removed ≤ 1 conserved
	require.NoError(t, m.Update([]int{0}, []int{4}, nil, false))
	assert.Equal(t, 1.0, reg.UpdateCount("qr", metrics.ModeColumn, metrics.PathIncremental))
	// empty update
	require.NoError(t, m.Update(nil, []int{4, 0}, nil, false))
	assert.Equal(t, 1.0, reg.UpdateCount("qr", metrics.ModeColumn, metrics.PathNoop))
}

func TestUpdate_SingularColumnIsTransactional(t *testing.T) {
	p := MustProxy(t, 3, 4) // 3 points cannot carry 4 columns
	rhs := rhsOf(t, p, square)
	for _, st := range strategies[:2] {
		t.Run(st.name, func(t *testing.T) {
			m := MustMethod(t, st.build, p, nil, []int{0, 1, 2})
			before := takeSnapshot(t, m, rhs)

			err := m.Update([]int{3}, []int{0, 1, 2}, nil, false)
			assert.ErrorIs(t, err, lsq.ErrConditioning)
			assert.Equal(t, []int{0, 1, 2}, m.CurrentIndices())
			assert.Equal(t, before, takeSnapshot(t, m, rhs))
		})
	}
}
