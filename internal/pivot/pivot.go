// Package pivot cross-tabulates aggregated demand over two dimensions.
package pivot

import (
	"fmt"
	"slices"

	"jobdemand-go/internal/types"
)

// Table is a dense cross-tabulation. Cells[i][j] is the summed measure for
// RowKeys[i] x ColKeys[j]; combinations absent from the input are 0.
type Table struct {
	RowDimension types.Dimension `json:"rowDimension"`
	ColDimension types.Dimension `json:"columnDimension"`
	RowKeys      []types.Key     `json:"rows"`
	ColKeys      []types.Key     `json:"columns"`
	Cells        [][]float64     `json:"cells"`
}

// Build re-aggregates rows onto (rowDim, colDim) and densifies the result.
// Every row must carry both dimensions.
func Build(rows []types.AggregateRow, rowDim, colDim types.Dimension) (Table, error) {
	t := Table{RowDimension: rowDim, ColDimension: colDim}
	if rowDim == colDim {
		return t, fmt.Errorf("%w: pivot needs two distinct dimensions, got %q twice", types.ErrInvalidArgument, rowDim)
	}
	type pair struct{ r, c types.Key }
	sums := map[pair][]float64{}
	rowSet := map[types.Key]bool{}
	colSet := map[types.Key]bool{}
	for i, row := range rows {
		rk, ok := row.Value(rowDim)
		if !ok {
			return t, fmt.Errorf("%w: row %d is not aggregated by %q", types.ErrInvalidArgument, i, rowDim)
		}
		ck, ok := row.Value(colDim)
		if !ok {
			return t, fmt.Errorf("%w: row %d is not aggregated by %q", types.ErrInvalidArgument, i, colDim)
		}
		sums[pair{rk, ck}] = append(sums[pair{rk, ck}], row.Measure)
		rowSet[rk] = true
		colSet[ck] = true
	}
	t.RowKeys = sortedKeys(rowSet)
	t.ColKeys = sortedKeys(colSet)
	t.Cells = make([][]float64, len(t.RowKeys))
	for i, rk := range t.RowKeys {
		t.Cells[i] = make([]float64, len(t.ColKeys))
		for j, ck := range t.ColKeys {
			t.Cells[i][j] = types.SumMeasures(sums[pair{rk, ck}])
		}
	}
	return t, nil
}

// Cell returns the value for (r, c). ok is false when either key was never
// observed; observed combinations without demand return 0 and true.
func (t Table) Cell(r, c types.Key) (float64, bool) {
	i := slices.Index(t.RowKeys, r)
	j := slices.Index(t.ColKeys, c)
	if i < 0 || j < 0 {
		return 0, false
	}
	return t.Cells[i][j], true
}

// RowTotals sums each row across all columns.
func (t Table) RowTotals() []float64 {
	out := make([]float64, len(t.Cells))
	for i, row := range t.Cells {
		for _, v := range row {
			out[i] += v
		}
	}
	return out
}

func sortedKeys(set map[types.Key]bool) []types.Key {
	out := make([]types.Key, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.SortFunc(out, types.Key.Compare)
	return out
}
