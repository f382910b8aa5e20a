// Package calibration compares engine rankings against an external reference
// ranking. It is read-only and has no effect on engine state.
package calibration

import (
	"cmp"
	"slices"
)

// AssignRanks returns the 1-based position of each value after a stable
// sort. Ties receive consecutive positions in input order rather than an
// averaged rank; the correlation is an approximation when ties occur.
func AssignRanks(values []float64, ascending bool) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		if ascending {
			return cmp.Compare(values[a], values[b])
		}
		return cmp.Compare(values[b], values[a])
	})
	ranks := make([]int, len(values))
	for pos, i := range idx {
		ranks[i] = pos + 1
	}
	return ranks
}

// Spearman returns 1 - 6Σd²/(n(n²-1)) over the index-position ranks of x and
// y. It returns 0 when fewer than two pairs are given or lengths differ.
func Spearman(x, y []float64) float64 {
	n := len(x)
	if n <= 1 || n != len(y) {
		return 0
	}
	rx := AssignRanks(x, true)
	ry := AssignRanks(y, true)
	var sum float64
	for i := range n {
		d := float64(rx[i] - ry[i])
		sum += d * d
	}
	fn := float64(n)
	return 1 - 6*sum/(fn*(fn*fn-1))
}
