// SPDX-License-Identifier: MIT

package lsq

import (
	"gonum.org/v1/gonum/mat"
)

// svdFactor is the thin decomposition Ã = U·diag(σ)·Vᵀ. Singular values at or
// below cutoff·σ_max are ignored by every solve and diagnostic. The state is
// never mutated after factor, so clones share it.
type svdFactor struct {
	cutoff float64
	n, k   int
	r      int
	sigma  []float64
	u, v   *mat.Dense
}

func newSVDFactor(o Options) *svdFactor { return &svdFactor{cutoff: o.singularCutoff} }

func (f *svdFactor) name() string { return StrategySVD }
func (f *svdFactor) rank() int    { return f.r }

func (f *svdFactor) clone() factorization {
	c := *f

	return &c
}

func (f *svdFactor) factor(d weightedDesign) error {
	n, k := d.n(), d.k()
	*f = svdFactor{cutoff: f.cutoff, n: n, k: k}
	if k == 0 || n == 0 {
		return nil
	}
	a := mat.NewDense(n, k, nil)
	buf := make([]float64, n)
	for j := 0; j < k; j++ {
		a.SetCol(j, d.column(j, buf))
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return ErrSingular
	}
	f.sigma = svd.Values(nil)
	f.u, f.v = new(mat.Dense), new(mat.Dense)
	svd.UTo(f.u)
	svd.VTo(f.v)

	if len(f.sigma) > 0 && f.sigma[0] > 0 {
		limit := f.cutoff * f.sigma[0]
		for _, s := range f.sigma {
			if s > limit {
				f.r++
			}
		}
	}

	return nil
}

// solve returns the minimum-norm solution V·Σ⁺·Uᵀb.
func (f *svdFactor) solve(_ weightedDesign, b []float64) []float64 {
	x := make([]float64, f.k)
	for l := 0; l < f.r; l++ {
		c := 0.0
		for p := 0; p < f.n; p++ {
			c += f.u.At(p, l) * b[p]
		}
		c /= f.sigma[l]
		for j := range x {
			x[j] += f.v.At(j, l) * c
		}
	}

	return x
}

// solveNormal returns V·Σ⁺²·Vᵀg.
func (f *svdFactor) solveNormal(g []float64) []float64 {
	x := make([]float64, f.k)
	for l := 0; l < f.r; l++ {
		c := 0.0
		for j := range g {
			c += f.v.At(j, l) * g[j]
		}
		c /= f.sigma[l] * f.sigma[l]
		for j := range x {
			x[j] += f.v.At(j, l) * c
		}
	}

	return x
}

func (f *svdFactor) leverage(weightedDesign) []float64 {
	h := make([]float64, f.n)
	for p := range h {
		for l := 0; l < f.r; l++ {
			u := f.u.At(p, l)
			h[p] += u * u
		}
	}

	return h
}

// gramInverseDiag returns the diagonal of the pseudo-inverse of ÃᵀÃ.
func (f *svdFactor) gramInverseDiag() []float64 {
	out := make([]float64, f.k)
	for j := range out {
		for l := 0; l < f.r; l++ {
			v := f.v.At(j, l) / f.sigma[l]
			out[j] += v * v
		}
	}

	return out
}
