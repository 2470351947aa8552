// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lstsq/basis"
	"github.com/katalvlaran/lstsq/lsq"
)

func newScanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Fit every total-degree prefix of the basis concurrently and compare them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ss, err := a.open()
			if err != nil {
				return err
			}
			candidates, err := degreePrefixes(ss.proxy.Sample().Dim(), a.cfg.Basis.Degree)
			if err != nil {
				return err
			}
			fits, err := lsq.FitCandidates(cmd.Context(), a.cfg.Method.Name, ss.proxy, ss.weights,
				candidates, ss.data.y, a.lsqOptions()...)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "degree\tterms\trank\trss\ttrace(G⁻¹)\terror\n")
			for d, fit := range fits {
				if fit.Err != nil {
					fmt.Fprintf(tw, "%d\t%d\t-\t-\t-\t%v\n", d, len(fit.Indices), fit.Err)
					continue
				}
				fmt.Fprintf(tw, "%d\t%d\t%d\t%.6g\t%.6g\t\n", d, len(fit.Indices), fit.Rank,
					fit.ResidualSumOfSquares, fit.GramInverseTrace)
			}
			stats := ss.proxy.Stats()
			a.logger.Info().Int("candidates", len(fits)).Int64("cache_hits", stats.Hits).
				Int64("cache_misses", stats.Misses).Msg("scan complete")

			return tw.Flush()
		},
	}
}

// degreePrefixes returns, for every d ≤ maxDegree, the catalogue indices of
// total degree at most d. The graded order of basis.TensorProduct makes each
// set a prefix of the catalogue.
func degreePrefixes(dim, maxDegree int) ([][]int, error) {
	idx, err := basis.MultiIndices(dim, maxDegree)
	if err != nil {
		return nil, err
	}
	out := make([][]int, 0, maxDegree+1)
	n := 0
	for d := 0; d <= maxDegree; d++ {
		for n < len(idx) && totalDegree(idx[n]) <= d {
			n++
		}
		set := make([]int, n)
		for i := range set {
			set[i] = i
		}
		out = append(out, set)
	}

	return out, nil
}

func totalDegree(alpha []int) int {
	s := 0
	for _, v := range alpha {
		s += v
	}

	return s
}
