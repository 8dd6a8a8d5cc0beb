// Package rank orders aggregated demand.
package rank

import (
	"cmp"
	"fmt"
	"slices"

	"jobdemand-go/internal/types"
)

// Sort returns a copy of rows ordered by measure descending, ties broken by
// key tuple ascending (null first).
func Sort(rows []types.AggregateRow) []types.AggregateRow {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b types.AggregateRow) int {
		if c := cmp.Compare(b.Measure, a.Measure); c != 0 {
			return c
		}
		return types.CompareKeys(a.Key, b.Key)
	})
	return out
}

// TopK returns at most k rows in Sort order.
func TopK(rows []types.AggregateRow, k int) ([]types.AggregateRow, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", types.ErrInvalidArgument, k)
	}
	sorted := Sort(rows)
	if k < len(sorted) {
		sorted = sorted[:k]
	}
	return sorted, nil
}
