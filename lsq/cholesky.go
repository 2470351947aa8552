// SPDX-License-Identifier: MIT

package lsq

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// choleskyFactor keeps the upper factor U of the Gram matrix ÃᵀÃ = UᵀU.
// The Gram matrix itself is only formed on full recomputation.
type choleskyFactor struct {
	tol  float64
	n, k int
	u    upper
}

func newCholeskyFactor(o Options) *choleskyFactor {
	return &choleskyFactor{tol: o.choleskyTolerance()}
}

func (f *choleskyFactor) name() string { return StrategyCholesky }
func (f *choleskyFactor) rank() int    { return f.k }

func (f *choleskyFactor) clone() factorization {
	c := *f
	c.u = f.u.clone()

	return &c
}

// factor forms the Gram matrix from column dot products and factorizes it.
func (f *choleskyFactor) factor(d weightedDesign) error {
	n, k := d.n(), d.k()
	f.n, f.k, f.u = n, 0, upper{}
	if k == 0 {
		return nil
	}
	if n == 0 {
		return ErrNotPositiveDefinite
	}
	cols := make([][]float64, k)
	for j := range cols {
		cols[j] = d.column(j, nil)
	}
	gram := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			gram.SetSym(i, j, floats.Dot(cols[i], cols[j]))
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(gram); !ok {
		return ErrNotPositiveDefinite
	}
	var t mat.TriDense
	chol.UTo(&t)
	u := upper{k: k, data: make([]float64, k*k)}
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			u.data[i*k+j] = t.At(i, j)
		}
	}
	for j := 0; j < k; j++ {
		g := gram.At(j, j)
		if piv := u.at(j, j); g == 0 || piv*piv <= f.tol*g {
			return ErrNotPositiveDefinite
		}
	}

	f.k, f.u = k, u
	f.u.normalizeSigns(nil)

	return nil
}

// appendColumn borders U: Uᵀs = Ãᵀa, d² = aᵀa − sᵀs.
func (f *choleskyFactor) appendColumn(d weightedDesign, col []float64) error {
	c := floats.Dot(col, col)
	if c == 0 {
		return ErrNotPositiveDefinite
	}
	s := make([]float64, f.k)
	for j := range s {
		s[j] = d.columnDot(j, col)
	}
	f.u.solveTrans(s)
	d2 := c - floats.Dot(s, s)
	if d2 <= f.tol*c {
		return ErrNotPositiveDefinite
	}
	f.u = f.u.appendColumn(s, math.Sqrt(d2))
	f.k++

	return nil
}

// deleteColumn removes column pos of U and re-triangularizes the trailing
// block with Givens rotations.
func (f *choleskyFactor) deleteColumn(pos int) {
	f.u.deleteColumn(pos, nil)
	f.k--
	f.u.normalizeSigns(nil)
}

// rankOne replaces U with the factor of UᵀU + alpha·vvᵀ.
func (f *choleskyFactor) rankOne(alpha float64, v []float64) error {
	if floats.Norm(v, 2) == 0 {
		return nil
	}
	var orig, upd mat.Cholesky
	orig.SetFromU(mat.NewTriDense(f.k, mat.Upper, append([]float64(nil), f.u.data...)))
	if ok := upd.SymRankOne(&orig, alpha, mat.NewVecDense(f.k, append([]float64(nil), v...))); !ok {
		return ErrNotPositiveDefinite
	}
	var t mat.TriDense
	upd.UTo(&t)
	for i := 0; i < f.k; i++ {
		for j := i; j < f.k; j++ {
			f.u.data[i*f.k+j] = t.At(i, j)
		}
	}
	f.u.normalizeSigns(nil)

	return nil
}

func (f *choleskyFactor) appendRows(rows [][]float64) error {
	if f.k > 0 {
		for _, v := range rows {
			if err := f.rankOne(1, v); err != nil {
				return err
			}
		}
	}
	f.n += len(rows)

	return nil
}

// deleteRow downdates with the weighted row v. The downdate is refused when
// 1 − ‖U⁻ᵀv‖² is not safely positive.
func (f *choleskyFactor) deleteRow(_ int, v []float64) error {
	if f.k > 0 {
		p := append([]float64(nil), v...)
		f.u.solveTrans(p)
		if 1-floats.Dot(p, p) <= f.tol {
			return ErrNotPositiveDefinite
		}
		if err := f.rankOne(-1, v); err != nil {
			return err
		}
	}
	f.n--

	return nil
}

func (f *choleskyFactor) permuteRows([]int) {}

// solve forms Ãᵀb and solves the normal equations.
func (f *choleskyFactor) solve(d weightedDesign, b []float64) []float64 {
	g := make([]float64, f.k)
	for j := range g {
		g[j] = d.columnDot(j, b)
	}

	return f.solveNormal(g)
}

func (f *choleskyFactor) solveNormal(g []float64) []float64 {
	x := append([]float64(nil), g...)
	f.u.solveTrans(x)
	f.u.solve(x)

	return x
}

// leverage returns ‖U⁻ᵀã_p‖² for every active row.
func (f *choleskyFactor) leverage(d weightedDesign) []float64 {
	h := make([]float64, d.n())
	v := make([]float64, f.k)
	for p := range h {
		d.row(p, v)
		f.u.solveTrans(v)
		h[p] = floats.Dot(v, v)
	}

	return h
}

func (f *choleskyFactor) gramInverseDiag() []float64 { return f.u.inverseDiag() }
