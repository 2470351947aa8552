// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/lstsq/lsq"
)

func newPathCmd(a *app) *cobra.Command {
	var dropOutliers int
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Forward-select basis terms by PRESS using incremental updates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ss, err := a.open()
			if err != nil {
				return err
			}
			m, err := lsq.Build(a.cfg.Method.Name, ss.proxy, ss.weights, []int{0}, a.lsqOptions()...)
			if err != nil {
				return err
			}
			steps, err := forwardSelect(m, ss.data.y, a.logger)
			if err != nil {
				return err
			}
			if err := writeSteps(cmd.OutOrStdout(), steps); err != nil {
				return err
			}
			if dropOutliers > 0 {
				dropped, err := dropLargestResiduals(m, ss.data.y, dropOutliers)
				if err != nil {
					return err
				}
				a.logger.Info().Ints("rows", dropped).Msg("outlier rows removed")
			}
			rep, err := diagnose(m, ss.data.y)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
			if err := rep.write(cmd.OutOrStdout(), m); err != nil {
				return err
			}
			a.logCounters()

			return nil
		},
	}
	cmd.Flags().IntVar(&dropOutliers, "drop-outliers", 0, "Remove this many rows with the largest deleted residuals after selection")

	return cmd
}

// step is one candidate term tried by forwardSelect.
type step struct {
	index    int
	press    float64
	accepted bool
}

// forwardSelect visits the catalogue in order and keeps a term when it lowers
// the PRESS statistic of the current model. A term whose column is dependent
// on the active ones is skipped. m is left at the selected active set.
func forwardSelect(m lsq.Method, y []float64, logger zerolog.Logger) ([]step, error) {
	rep, err := diagnose(m, y)
	if err != nil {
		return nil, err
	}
	best := rep.press
	current := m.CurrentIndices()
	inCurrent := make(map[int]bool, len(current))
	for _, i := range current {
		inCurrent[i] = true
	}

	var steps []step
	for j := 0; j < m.Basis().Size(); j++ {
		if inCurrent[j] {
			continue
		}
		if err := m.Update([]int{j}, current, nil, false); err != nil {
			if errors.Is(err, lsq.ErrConditioning) {
				logger.Debug().Int("index", j).Err(err).Msg("term skipped")
				steps = append(steps, step{index: j, press: math.NaN()})
				continue
			}
			return nil, err
		}
		rep, err := diagnose(m, y)
		if err != nil {
			return nil, err
		}
		st := step{index: j, press: rep.press}
		if rep.press < best {
			best = rep.press
			current = m.CurrentIndices()
			st.accepted = true
		} else if err := m.Update(nil, current, []int{j}, false); err != nil {
			return nil, err
		}
		logger.Debug().Int("index", j).Float64("press", rep.press).Bool("accepted", st.accepted).Msg("term tried")
		steps = append(steps, st)
	}

	return steps, nil
}

// dropLargestResiduals removes the n active rows with the largest deleted
// residuals |r_i| / (1 − h_i) through a row-mode update and returns them.
func dropLargestResiduals(m lsq.Method, y []float64, n int) ([]int, error) {
	x, err := m.Solve(y)
	if err != nil {
		return nil, err
	}
	r, err := residuals(m, x, y)
	if err != nil {
		return nil, err
	}
	h, err := m.HDiag()
	if err != nil {
		return nil, err
	}
	rows := m.ActiveRows()
	score := func(i int) float64 {
		if 1-h[i] <= 1e-12 {
			return 0 // removing it would make the fit singular
		}
		return math.Abs(r[i]) / (1 - h[i])
	}
	sort.SliceStable(rows, func(a, b int) bool { return score(rows[a]) > score(rows[b]) })
	if n > len(rows) {
		n = len(rows)
	}
	removed, conserved := rows[:n], rows[n:]
	if err := m.Update(nil, conserved, removed, true); err != nil {
		return nil, err
	}

	return append([]int(nil), removed...), nil
}

func writeSteps(out io.Writer, steps []step) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "index\tpress\taccepted\n")
	for _, st := range steps {
		fmt.Fprintf(tw, "%d\t%.6g\t%t\n", st.index, st.press, st.accepted)
	}

	return tw.Flush()
}
