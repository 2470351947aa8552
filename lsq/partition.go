// SPDX-License-Identifier: MIT

package lsq

import (
	"fmt"
	"sort"
)

// plan is a validated transition of an ordered index set.
type plan struct {
	noop      bool
	recompute bool
	next      []int // conserved followed by added
	removed   []int // positions in the previous set, descending
	added     []int
	// perm[p] is the position, in the previous set with removed entries
	// dropped, of conserved[p]. nil when conserved keeps the previous order.
	perm []int
}

// planUpdate validates (added, conserved, removed) against prev and decides
// the update path. bound is the exclusive upper limit of valid indices.
// When ordered is set, conserved must keep its relative order from prev.
func planUpdate(prev []int, bound int, added, conserved, removed []int, ordered bool, o Options) (plan, error) {
	seen := make(map[int]struct{}, len(added)+len(conserved)+len(removed))
	for _, set := range [...][]int{added, conserved, removed} {
		for _, v := range set {
			if v < 0 || v >= bound {
				return plan{}, fmt.Errorf("index %d not in [0,%d): %w", v, bound, ErrOutOfRange)
			}
			if _, dup := seen[v]; dup {
				return plan{}, fmt.Errorf("index %d listed twice: %w", v, ErrInvalidPartition)
			}
			seen[v] = struct{}{}
		}
	}

	pos := make(map[int]int, len(prev))
	for p, v := range prev {
		pos[v] = p
	}
	if len(conserved)+len(removed) != len(prev) {
		return plan{}, fmt.Errorf("conserved+removed has %d entries, previous set %d: %w",
			len(conserved)+len(removed), len(prev), ErrInvalidPartition)
	}
	for _, v := range added {
		if _, in := pos[v]; in {
			return plan{}, fmt.Errorf("added index %d already active: %w", v, ErrInvalidPartition)
		}
	}

	removedPos := make([]int, len(removed))
	for i, v := range removed {
		p, in := pos[v]
		if !in {
			return plan{}, fmt.Errorf("removed index %d is not active: %w", v, ErrInvalidPartition)
		}
		removedPos[i] = p
	}
	sort.Sort(sort.Reverse(sort.IntSlice(removedPos)))

	conservedPos := make([]int, len(conserved))
	inOrder := true
	for i, v := range conserved {
		p, in := pos[v]
		if !in {
			return plan{}, fmt.Errorf("conserved index %d is not active: %w", v, ErrInvalidPartition)
		}
		conservedPos[i] = p
		if i > 0 && p < conservedPos[i-1] {
			inOrder = false
		}
	}
	if ordered && !inOrder {
		return plan{}, fmt.Errorf("conserved indices reordered: %w", ErrInvalidPartition)
	}

	pl := plan{
		removed: removedPos,
		added:   append([]int(nil), added...),
		next:    append(append(make([]int, 0, len(conserved)+len(added)), conserved...), added...),
	}
	if len(added) == 0 && len(removed) == 0 && inOrder {
		pl.noop = true
		return pl, nil
	}
	if !inOrder {
		pl.perm = compactPositions(conservedPos)
	}
	pl.recompute = len(conserved) == 0 || !o.incremental ||
		float64(len(removed)) > o.recomputeRatio*float64(len(conserved))

	return pl, nil
}

// compactPositions maps positions in the previous set to positions among the
// surviving entries, preserving the order of ps.
func compactPositions(ps []int) []int {
	sorted := append([]int(nil), ps...)
	sort.Ints(sorted)
	rank := make(map[int]int, len(sorted))
	for r, p := range sorted {
		rank[p] = r
	}
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = rank[p]
	}

	return out
}
