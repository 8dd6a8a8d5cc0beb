package aggregator

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"jobdemand-go/internal/quality"
	"jobdemand-go/internal/types"
)

// Aggregate groups rows by the exact tuple of values for keys and sums the
// application counts. Null key components group together. Missing counts add
// nothing; non-numeric counts add nothing and are signalled on q.
// The result is sorted by key tuple so repeated runs compare equal.
func Aggregate[R types.Row](rows []R, keys []types.Dimension, q *quality.Tracker) ([]types.AggregateRow, error) {
	if err := validateKeys(rows, keys); err != nil {
		return nil, err
	}
	groups := map[string]*types.AggregateRow{}
	values := map[string][]float64{}
	for i, r := range rows {
		tuple := make([]types.Key, len(keys))
		for j, d := range keys {
			v, ok := r.Field(d)
			if !ok {
				return nil, fmt.Errorf("%w: row %d has no field %q", types.ErrInvalidArgument, i, d)
			}
			tuple[j] = v
		}
		id := encode(tuple)
		g, ok := groups[id]
		if !ok {
			g = &types.AggregateRow{Dimensions: slices.Clone(keys), Key: tuple}
			groups[id] = g
		}
		c := r.Applications()
		switch {
		case c.Valid:
			values[id] = append(values[id], c.Value)
		case c.NonNumeric():
			q.Signal(quality.NonNumericMeasure, logrus.Fields{"row": i, "value": c.Raw})
		}
	}
	out := make([]types.AggregateRow, 0, len(groups))
	for id, g := range groups {
		g.Measure = types.SumMeasures(values[id])
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b types.AggregateRow) int { return types.CompareKeys(a.Key, b.Key) })
	return out, nil
}

// Total sums the measures of rows.
func Total(rows []types.AggregateRow) float64 {
	var t float64
	for _, r := range rows {
		t += r.Measure
	}
	return t
}

func validateKeys[R types.Row](rows []R, keys []types.Dimension) error {
	if len(keys) == 0 {
		return fmt.Errorf("%w: no grouping fields", types.ErrInvalidArgument)
	}
	seen := map[types.Dimension]bool{}
	for _, d := range keys {
		if seen[d] {
			return fmt.Errorf("%w: duplicate grouping field %q", types.ErrInvalidArgument, d)
		}
		seen[d] = true
	}
	// Check the schema on the zero value so empty inputs still reject unknown fields.
	var zero R
	if any(zero) == nil {
		return nil
	}
	for _, d := range keys {
		if _, ok := zero.Field(d); !ok {
			return fmt.Errorf("%w: field %q does not exist on %T", types.ErrInvalidArgument, d, zero)
		}
	}
	return nil
}

func encode(tuple []types.Key) string {
	var b strings.Builder
	for i, k := range tuple {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		if !k.Valid {
			b.WriteString("\x00")
			continue
		}
		b.WriteString(strconv.Quote(k.Value))
	}
	return b.String()
}
