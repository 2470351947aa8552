// SPDX-License-Identifier: MIT

package lsq

// weightedDesign is a read-only view of Ã = √W·A restricted to the active
// rows. cols are the shared, unweighted proxy columns over the whole sample.
type weightedDesign struct {
	cols  [][]float64
	rows  []int
	sqrtW []float64
}

func (d weightedDesign) n() int { return len(d.rows) }
func (d weightedDesign) k() int { return len(d.cols) }

// column writes column j of Ã into dst (allocated when nil) and returns it.
func (d weightedDesign) column(j int, dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(d.rows))
	}
	c := d.cols[j]
	for p, i := range d.rows {
		dst[p] = d.sqrtW[i] * c[i]
	}

	return dst
}

// sampleRow writes the weighted design row of sample row i into dst.
// i need not be active.
func (d weightedDesign) sampleRow(i int, dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(d.cols))
	}
	for j, c := range d.cols {
		dst[j] = d.sqrtW[i] * c[i]
	}

	return dst
}

// row writes active row p of Ã into dst.
func (d weightedDesign) row(p int, dst []float64) []float64 {
	return d.sampleRow(d.rows[p], dst)
}

// columnDot returns (column j of Ã)·b for b indexed by active row.
func (d weightedDesign) columnDot(j int, b []float64) float64 {
	c := d.cols[j]
	s := 0.0
	for p, i := range d.rows {
		s += d.sqrtW[i] * c[i] * b[p]
	}

	return s
}

// withColumn returns a view with one more unweighted column appended.
func (d weightedDesign) withColumn(col []float64) weightedDesign {
	cols := make([][]float64, len(d.cols), len(d.cols)+1)
	copy(cols, d.cols)
	d.cols = append(cols, col)

	return d
}
