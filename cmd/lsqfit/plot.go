// SPDX-License-Identifier: MIT

package main

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/katalvlaran/lstsq/basis"
)

const plotSamples = 200

var errPlotDim = errors.New("lsqfit: --plot needs one-dimensional inputs")

// savePlot draws the data points and the fitted curve Σ x_j f_j(t).
func savePlot(path string, ds *dataset, fns []basis.Function, coef []float64) error {
	if len(ds.points[0]) != 1 {
		return errPlotDim
	}
	pts := make(plotter.XYs, len(ds.points))
	xs := make([]float64, len(ds.points))
	for i, p := range ds.points {
		pts[i].X, pts[i].Y = p[0], ds.y[i]
		xs[i] = p[0]
	}

	grid := make([]float64, plotSamples)
	floats.Span(grid, floats.Min(xs), floats.Max(xs))
	curve := make(plotter.XYs, plotSamples)
	at := make([]float64, 1)
	for i, t := range grid {
		at[0] = t
		v := 0.0
		for j, f := range fns {
			v += coef[j] * f.Evaluate(at)
		}
		curve[i].X, curve[i].Y = t, v
	}

	p := plot.New()
	p.Title.Text = "least-squares fit"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	line, err := plotter.NewLine(curve)
	if err != nil {
		return err
	}
	p.Add(scatter, line, plotter.NewGrid())
	p.Legend.Add("data", scatter)
	p.Legend.Add("fit", line)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
