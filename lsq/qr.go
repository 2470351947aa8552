// SPDX-License-Identifier: MIT

package lsq

import (
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
)

// qrFactor is the thin factorization Ã = Q·R of the weighted active design.
// Q is n×k column-major (column j is q[j*n:(j+1)*n]); diag(R) ≥ 0.
type qrFactor struct {
	tol  float64
	n, k int
	q    []float64
	r    upper
}

func newQRFactor(o Options) *qrFactor { return &qrFactor{tol: o.rankTol} }

func (f *qrFactor) name() string { return StrategyQR }
func (f *qrFactor) rank() int    { return f.k }

func (f *qrFactor) clone() factorization {
	c := *f
	c.q = append([]float64(nil), f.q...)
	c.r = f.r.clone()

	return &c
}

func (f *qrFactor) col(j int) []float64 { return f.q[j*f.n : (j+1)*f.n] }

func (f *qrFactor) colVec(j int) blas64.Vector {
	return blas64.Vector{N: f.n, Inc: 1, Data: f.col(j)}
}

// factor recomputes Q and R with Householder reflections.
func (f *qrFactor) factor(d weightedDesign) error {
	n, k := d.n(), d.k()
	f.n, f.k = n, 0
	f.q, f.r = nil, upper{}
	if k == 0 {
		return nil
	}
	if n < k {
		return ErrSingular
	}

	a := make([]float64, n*k) // column-major working copy, overwritten by R and the reflectors
	norms := make([]float64, k)
	for j := 0; j < k; j++ {
		d.column(j, a[j*n:(j+1)*n])
		norms[j] = floats.Norm(a[j*n:(j+1)*n], 2)
		if norms[j] == 0 {
			return ErrSingular
		}
	}

	vs := make([][]float64, k)
	taus := make([]float64, k)
	for c := 0; c < k; c++ {
		x := a[c*n+c : (c+1)*n]
		norm := floats.Norm(x, 2)
		if norm == 0 {
			return ErrSingular
		}
		alpha := -math.Copysign(norm, x[0])
		v := append([]float64(nil), x...)
		v[0] -= alpha
		beta := floats.Dot(v, v)
		if beta == 0 {
			continue
		}
		tau := 2.0 / beta
		vs[c], taus[c] = v, tau
		// apply H_c to the trailing columns
		for j := c; j < k; j++ {
			y := a[j*n+c : (j+1)*n]
			floats.AddScaled(y, -tau*floats.Dot(v, y), v)
		}
	}

	r := upper{k: k, data: make([]float64, k*k)}
	for j := 0; j < k; j++ {
		for i := 0; i <= j; i++ {
			r.data[i*k+j] = a[j*n+i]
		}
	}
	for j := 0; j < k; j++ {
		if math.Abs(r.at(j, j)) <= f.tol*norms[j] {
			return ErrSingular
		}
	}

	// Q = H_0 H_1 … H_{k-1} I[:, :k]
	q := make([]float64, n*k)
	for j := 0; j < k; j++ {
		q[j*n+j] = 1
	}
	for c := k - 1; c >= 0; c-- {
		v := vs[c]
		if v == nil {
			continue
		}
		for j := 0; j < k; j++ {
			y := q[j*n+c : (j+1)*n]
			floats.AddScaled(y, -taus[c]*floats.Dot(v, y), v)
		}
	}

	f.k, f.q, f.r = k, q, r
	f.normalize()

	return nil
}

func (f *qrFactor) normalize() {
	f.r.normalizeSigns(func(j int) { floats.Scale(-1, f.col(j)) })
}

// appendColumn adds a weighted column with classical Gram-Schmidt and one
// re-orthogonalisation pass.
func (f *qrFactor) appendColumn(_ weightedDesign, col []float64) error {
	norm := floats.Norm(col, 2)
	if norm == 0 || f.k >= f.n {
		return ErrSingular
	}
	v := append([]float64(nil), col...)
	coef := make([]float64, f.k)
	dots := make([]float64, f.k)
	for pass := 0; pass < 2; pass++ {
		for j := 0; j < f.k; j++ {
			dots[j] = floats.Dot(f.col(j), v)
		}
		for j := 0; j < f.k; j++ {
			floats.AddScaled(v, -dots[j], f.col(j))
			coef[j] += dots[j]
		}
	}
	rho := floats.Norm(v, 2)
	if rho <= f.tol*norm {
		return ErrSingular
	}
	floats.Scale(1/rho, v)

	f.q = append(f.q, v...)
	f.r = f.r.appendColumn(coef, rho)
	f.k++

	return nil
}

// deleteColumn drops column pos of R and rotates Q along.
func (f *qrFactor) deleteColumn(pos int) {
	f.r.deleteColumn(pos, func(p int, c, s float64) {
		blas64.Rot(f.colVec(p), f.colVec(p+1), c, s)
	})
	f.k--
	f.q = f.q[:f.k*f.n]
	f.normalize()
}

// appendRows adds weighted rows at the bottom of Ã. Q is extended with one
// unit column per new row; each row is annihilated against R with Givens
// rotations and the extra columns are dropped.
func (f *qrFactor) appendRows(rows [][]float64) error {
	m := len(rows)
	n := f.n + m
	if f.k == 0 {
		f.n = n
		return nil
	}
	k := f.k
	qe := make([]float64, n*(k+m))
	for j := 0; j < k; j++ {
		copy(qe[j*n:j*n+f.n], f.col(j))
	}
	for t := 0; t < m; t++ {
		qe[(k+t)*n+f.n+t] = 1
	}
	col := func(j int) blas64.Vector { return blas64.Vector{N: n, Inc: 1, Data: qe[j*n : (j+1)*n]} }

	for t, row := range rows {
		b := append([]float64(nil), row...)
		for j := 0; j < k; j++ {
			if b[j] == 0 {
				continue
			}
			rj := f.r.row(j)
			c, s, r, _ := blas64.Rotg(rj[0], b[j])
			blas64.Rot(
				blas64.Vector{N: k - j, Inc: 1, Data: rj},
				blas64.Vector{N: k - j, Inc: 1, Data: b[j:]},
				c, s)
			rj[0], b[j] = r, 0
			blas64.Rot(col(j), col(k+t), c, s)
		}
	}

	f.n = n
	f.q = qe[:n*k]
	f.normalize()

	return nil
}

// deleteRow removes active row pos. Q is augmented with the normalised
// component of e_pos orthogonal to range(Q); rotations then reduce row pos of
// the augmented Q to ±e_0, and R is read off rows 1..k of the rotated
// (k+1)×k factor.
func (f *qrFactor) deleteRow(pos int, _ []float64) error {
	n, k := f.n, f.k
	if k == 0 {
		f.n--
		return nil
	}
	qr := make([]float64, k)
	for j := 0; j < k; j++ {
		qr[j] = f.q[j*n+pos]
	}
	if 1-floats.Dot(qr, qr) <= f.tol {
		return ErrSingular
	}

	u := make([]float64, n)
	u[pos] = 1
	for pass := 0; pass < 2; pass++ {
		for j := 0; j < k; j++ {
			floats.AddScaled(u, -floats.Dot(f.col(j), u), f.col(j))
		}
	}
	nu := floats.Norm(u, 2)
	if nu == 0 {
		return ErrSingular
	}
	floats.Scale(1/nu, u)

	qa := make([]float64, n*(k+1))
	copy(qa, f.q)
	copy(qa[k*n:], u)
	h := make([]float64, (k+1)*k) // [R; 0], row-major
	for i := 0; i < k; i++ {
		copy(h[i*k+i:(i+1)*k], f.r.row(i))
	}
	qcol := func(j int) blas64.Vector { return blas64.Vector{N: n, Inc: 1, Data: qa[j*n : (j+1)*n]} }
	hrow := func(i int) blas64.Vector { return blas64.Vector{N: k, Inc: 1, Data: h[i*k : (i+1)*k]} }
	for j := k; j >= 1; j-- {
		c, s, _, _ := blas64.Rotg(qa[(j-1)*n+pos], qa[j*n+pos])
		blas64.Rot(qcol(j-1), qcol(j), c, s)
		blas64.Rot(hrow(j-1), hrow(j), c, s)
	}

	r := upper{k: k, data: make([]float64, k*k)}
	for i := 0; i < k; i++ {
		copy(r.data[i*k+i:(i+1)*k], h[(i+1)*k+i:(i+2)*k])
	}
	q := make([]float64, 0, (n-1)*k)
	for j := 1; j <= k; j++ {
		c := qa[j*n : (j+1)*n]
		q = append(q, c[:pos]...)
		q = append(q, c[pos+1:]...)
	}

	f.n, f.q, f.r = n-1, q, r
	f.normalize()

	return nil
}

// permuteRows reorders active rows: new row p is old row perm[p].
func (f *qrFactor) permuteRows(perm []int) {
	q := make([]float64, len(f.q))
	for j := 0; j < f.k; j++ {
		src, dst := f.col(j), q[j*f.n:(j+1)*f.n]
		for p, old := range perm {
			dst[p] = src[old]
		}
	}
	f.q = q
}

// solve returns R⁻¹Qᵀb.
func (f *qrFactor) solve(_ weightedDesign, b []float64) []float64 {
	x := make([]float64, f.k)
	for j := range x {
		x[j] = floats.Dot(f.col(j), b)
	}
	f.r.solve(x)

	return x
}

// solveNormal solves the semi-normal equations RᵀR x = g.
func (f *qrFactor) solveNormal(g []float64) []float64 {
	x := append([]float64(nil), g...)
	f.r.solveTrans(x)
	f.r.solve(x)

	return x
}

// leverage returns the squared row norms of Q.
func (f *qrFactor) leverage(weightedDesign) []float64 {
	h := make([]float64, f.n)
	for j := 0; j < f.k; j++ {
		for p, v := range f.col(j) {
			h[p] += v * v
		}
	}

	return h
}

func (f *qrFactor) gramInverseDiag() []float64 { return f.r.inverseDiag() }
