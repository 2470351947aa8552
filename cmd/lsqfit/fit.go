// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lstsq/basis"
	"github.com/katalvlaran/lstsq/lsq"
)

func newFitCmd(a *app) *cobra.Command {
	var plotPath string
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit the full configured basis and print coefficients and diagnostics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ss, err := a.open()
			if err != nil {
				return err
			}
			all := make([]int, ss.proxy.BasisSize())
			for i := range all {
				all[i] = i
			}
			m, err := lsq.Build(a.cfg.Method.Name, ss.proxy, ss.weights, all, a.lsqOptions()...)
			if err != nil {
				return err
			}
			rep, err := diagnose(m, ss.data.y)
			if err != nil {
				return err
			}
			a.logger.Info().Str("strategy", m.Name()).Str("method_id", m.ID()).Int("rank", m.Rank()).Msg("fit complete")
			if err := rep.write(cmd.OutOrStdout(), m); err != nil {
				return err
			}
			if plotPath != "" {
				fns, err := m.CurrentBasis()
				if err != nil {
					return err
				}
				if err := savePlot(plotPath, ss.data, fns, rep.coefficients); err != nil {
					return err
				}
				a.logger.Info().Str("path", plotPath).Msg("plot written")
			}
			a.logCounters()

			return nil
		},
	}
	cmd.Flags().StringVar(&plotPath, "plot", "", "Write data and fitted curve to this image (1-D inputs only)")

	return cmd
}

// report holds the diagnostics of one fitted Method.
type report struct {
	coefficients []float64
	rss          float64 // Σ w_i r_i²
	press        float64 // Σ w_i (r_i / (1 − h_i))², +Inf when some h_i ≈ 1
	traceInv     float64
	diagInv      []float64
}

func diagnose(m lsq.Method, y []float64) (*report, error) {
	x, err := m.Solve(y)
	if err != nil {
		return nil, err
	}
	h, err := m.HDiag()
	if err != nil {
		return nil, err
	}
	diag, err := m.GramInverseDiag()
	if err != nil {
		return nil, err
	}
	trace, err := m.GramInverseTrace()
	if err != nil {
		return nil, err
	}
	r, err := residuals(m, x, y)
	if err != nil {
		return nil, err
	}
	w := m.Weights()
	rep := &report{coefficients: x, traceInv: trace, diagInv: diag}
	for _, i := range m.ActiveRows() {
		rep.rss += w[i] * r[i] * r[i]
		if w[i] == 0 {
			continue
		}
		if 1-h[i] <= 1e-12 {
			rep.press = math.Inf(1)
			continue
		}
		e := r[i] / (1 - h[i])
		rep.press += w[i] * e * e
	}

	return rep, nil
}

// residuals returns y − A x over every sample row, unweighted.
func residuals(m lsq.Method, x, y []float64) ([]float64, error) {
	a, err := m.Proxy().Evaluate(m.CurrentIndices())
	if err != nil {
		return nil, err
	}
	var ax mat.VecDense
	ax.MulVec(a, mat.NewVecDense(len(x), x))
	r := make([]float64, len(y))
	floats.SubTo(r, y, ax.RawVector().Data)

	return r, nil
}

func (rep *report) write(out io.Writer, m lsq.Method) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "index\tterm\tcoefficient\tvar factor\n")
	for j, idx := range m.CurrentIndices() {
		fmt.Fprintf(tw, "%d\t%s\t% .10g\t%.4g\n", idx, termName(m.Basis(), idx), rep.coefficients[j], rep.diagInv[j])
	}
	fmt.Fprintf(tw, "\nstrategy\t%s\n", m.Name())
	fmt.Fprintf(tw, "rank\t%d\n", m.Rank())
	fmt.Fprintf(tw, "rss\t%.6g\n", rep.rss)
	fmt.Fprintf(tw, "press\t%.6g\n", rep.press)
	fmt.Fprintf(tw, "trace(G⁻¹)\t%.6g\n", rep.traceInv)

	return tw.Flush()
}

// termName renders a catalogue entry as its multi-index when it is a polynomial.
func termName(b *basis.Basis, idx int) string {
	f, err := b.Function(idx)
	if err != nil {
		return "?"
	}
	if p, ok := f.(*basis.Polynomial); ok {
		return fmt.Sprint(p.Degrees())
	}

	return fmt.Sprintf("f%d", idx)
}
