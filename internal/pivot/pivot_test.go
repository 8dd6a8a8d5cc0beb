package pivot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jobdemand-go/internal/types"
)

var dims = []types.Dimension{types.DimCategory, types.DimPositionLevel, types.DimTitle}

func agg(cat, level, title string, m float64) types.AggregateRow {
	return types.AggregateRow{
		Dimensions: dims,
		Key:        []types.Key{types.OptionalKey(cat), types.OptionalKey(level), types.OptionalKey(title)},
		Measure:    m,
	}
}

func TestBuild_MarginalizesAndDensifies(t *testing.T) {
	rows := []types.AggregateRow{
		agg("Consulting", "Entry", "Analyst", 100),
		agg("Consulting", "Entry", "Associate", 20),
		agg("Consulting", "Senior", "Manager", 5),
		agg("Events", "Entry", "Promoter", 50),
		agg("Events", "", "Usher", 7),
	}

	tbl, err := Build(rows, types.DimCategory, types.DimPositionLevel)
	require.NoError(t, err)

	assert.Equal(t, []types.Key{types.Known("Consulting"), types.Known("Events")}, tbl.RowKeys)
	assert.Equal(t, []types.Key{types.Null, types.Known("Entry"), types.Known("Senior")}, tbl.ColKeys)

	tests := []struct {
		r, c types.Key
		want float64
	}{
		{types.Known("Consulting"), types.Known("Entry"), 120},
		{types.Known("Consulting"), types.Known("Senior"), 5},
		{types.Known("Consulting"), types.Null, 0},
		{types.Known("Events"), types.Known("Entry"), 50},
		{types.Known("Events"), types.Known("Senior"), 0},
		{types.Known("Events"), types.Null, 7},
	}
	for _, tc := range tests {
		got, ok := tbl.Cell(tc.r, tc.c)
		assert.True(t, ok)
		assert.Equal(t, tc.want, got, "%s x %s", tc.r, tc.c)
	}

	for _, row := range tbl.Cells {
		assert.Len(t, row, len(tbl.ColKeys))
	}
	assert.Equal(t, []float64{125, 57}, tbl.RowTotals())

	_, ok := tbl.Cell(types.Known("Sales"), types.Known("Entry"))
	assert.False(t, ok)
}

func TestBuild_InvalidDimensions(t *testing.T) {
	rows := []types.AggregateRow{{
		Dimensions: []types.Dimension{types.DimCategory},
		Key:        []types.Key{types.Known("Consulting")},
		Measure:    1,
	}}

	_, err := Build(rows, types.DimCategory, types.DimPositionLevel)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = Build(rows, types.DimCategory, types.DimCategory)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestBuild_Empty(t *testing.T) {
	tbl, err := Build(nil, types.DimCategory, types.DimTitle)
	require.NoError(t, err)
	assert.Empty(t, tbl.RowKeys)
	assert.Empty(t, tbl.Cells)
}

func TestBuild_CellSumsIgnoreRowOrder(t *testing.T) {
	mk := func(title string, m float64) types.AggregateRow {
		return types.AggregateRow{
			Dimensions: []types.Dimension{types.DimCategory, types.DimPositionLevel, types.DimTitle},
			Key:        []types.Key{types.Known("Consulting"), types.Known("Entry"), types.Known(title)},
			Measure:    m,
		}
	}
	forward := []types.AggregateRow{mk("A", 0.1), mk("B", 0.2), mk("C", 0.3)}
	reverse := []types.AggregateRow{forward[2], forward[1], forward[0]}

	a, err := Build(forward, types.DimCategory, types.DimPositionLevel)
	require.NoError(t, err)
	b, err := Build(reverse, types.DimCategory, types.DimPositionLevel)
	require.NoError(t, err)
	assert.Equal(t, a.Cells, b.Cells)
}
