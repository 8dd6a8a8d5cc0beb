package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jobdemand-go/internal/aggregator"
	"jobdemand-go/internal/category"
	"jobdemand-go/internal/exploder"
	"jobdemand-go/internal/quality"
	"jobdemand-go/internal/types"
)

func intp(v int) *int { return &v }

func exampleRecords() []types.Record {
	return []types.Record{
		{
			Title: types.Known("Analyst"), PositionLevel: types.Known("Entry"),
			ApplicationCount: types.ParseCount(100),
			RawCategories:    []types.CategoryEntry{{ID: intp(7)}},
		},
		{
			Title: types.Known("Analyst"), PositionLevel: types.Known("Entry"),
			ApplicationCount: types.ParseCount(50),
			RawCategories:    []types.CategoryEntry{{ID: intp(7)}, {ID: intp(14)}},
		},
	}
}

func exampleOptions() Options {
	opts := DefaultOptions()
	opts.Resolver = category.NewResolver(map[int]string{7: "Consulting", 14: "Events"})
	opts.TopK = 1
	return opts
}

func TestRun_WorkedExample(t *testing.T) {
	res, err := Run(exampleRecords(), exampleOptions())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Exploded)
	require.Len(t, res.ByCategory, 2)
	assert.Equal(t, types.Known("Consulting"), res.ByCategory[0].Key[0])
	assert.Equal(t, 150.0, res.ByCategory[0].Measure)
	assert.Equal(t, types.Known("Events"), res.ByCategory[1].Key[0])
	assert.Equal(t, 50.0, res.ByCategory[1].Measure)

	require.Len(t, res.Top, 1)
	cat, _ := res.Top[0].Value(types.DimCategory)
	assert.Equal(t, "Consulting", cat.Value)
	assert.Equal(t, 150.0, res.Top[0].Measure)

	cell, ok := res.Heatmap.Cell(types.Known("Events"), types.Known("Entry"))
	require.True(t, ok)
	assert.Equal(t, 50.0, cell)

	assert.Equal(t, 200.0, res.Tree.Value)
	require.Len(t, res.PositionDemand, 1)
	assert.Equal(t, 150.0, res.PositionDemand[0].Measure)
	assert.Equal(t, quality.Summary{}, res.Quality)
}

func TestRun_UncategorizedExcludedFromCategoryViews(t *testing.T) {
	recs := append(exampleRecords(),
		types.Record{Title: types.Known("Driver"), PositionLevel: types.Known("Entry"), ApplicationCount: types.ParseCount(40), RawCategories: "not a valid literal"},
		types.Record{Title: types.Known("Cook"), ApplicationCount: types.ParseCount(5)},
	)

	res, err := Run(recs, exampleOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Uncategorized)
	assert.Equal(t, 200.0, aggregator.Total(res.ByCategory))
	assert.Equal(t, 200.0, res.Tree.Value)
	// record-level views still see every posting
	assert.Equal(t, 195.0, aggregator.Total(res.PositionDemand))
	assert.Equal(t, 1, res.Quality.MalformedCategoryData)

	opts := exampleOptions()
	opts.Policy = exploder.BucketUncategorized
	res, err = Run(recs, opts)
	require.NoError(t, err)
	assert.Equal(t, 245.0, aggregator.Total(res.ByCategory))
	assert.NotNil(t, res.Tree.Child(exploder.UncategorizedLabel))
}

func TestRun_ExplosionRoundTripsTotals(t *testing.T) {
	recs := []types.Record{
		{Title: types.Known("A"), PositionLevel: types.Known("Entry"), ApplicationCount: types.ParseCount(3), RawCategories: "[{'id': 7}, {'id': 14}, {'id': 7}]"},
		{Title: types.Known("B"), ApplicationCount: types.ParseCount(11), RawCategories: "[{'id': 14}]"},
		{Title: types.Known("C"), PositionLevel: types.Known("Senior"), ApplicationCount: types.ParseCount("x"), RawCategories: "[{'id': 7}]"},
	}
	res, err := Run(recs, exampleOptions())
	require.NoError(t, err)

	want := map[string]float64{"Consulting": 6, "Events": 14}
	for _, r := range res.ByCategory {
		assert.Equal(t, want[r.Key[0].Value], r.Measure, r.Key[0].Value)
	}
	assert.Equal(t, 1, res.Quality.NonNumericMeasure)
	assert.Equal(t, aggregator.Total(res.Demand), res.Tree.Value)
	var pivotTotal float64
	for _, v := range res.Heatmap.RowTotals() {
		pivotTotal += v
	}
	assert.Equal(t, aggregator.Total(res.Demand), pivotTotal)
}

func TestRun_Idempotent(t *testing.T) {
	recs := append(exampleRecords(), types.Record{Title: types.Known("Cook"), ApplicationCount: types.ParseCount(5), RawCategories: "[{'id': 99, 'category': 'F&B'}]"})
	a, err := Run(recs, exampleOptions())
	require.NoError(t, err)
	b, err := Run(recs, exampleOptions())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRun_InvalidTopK(t *testing.T) {
	opts := exampleOptions()
	opts.TopK = 0
	_, err := Run(exampleRecords(), opts)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestAggregate_ChoosesGranularity(t *testing.T) {
	recs := append(exampleRecords(), types.Record{Title: types.Known("Cook"), PositionLevel: types.Known("Entry"), ApplicationCount: types.ParseCount(5)})

	byLevel, _, err := Aggregate(recs, []types.Dimension{types.DimPositionLevel}, exampleOptions())
	require.NoError(t, err)
	require.Len(t, byLevel, 1)
	assert.Equal(t, 155.0, byLevel[0].Measure)

	byCat, q, err := Aggregate(recs, []types.Dimension{types.DimCategory, types.DimPositionLevel}, exampleOptions())
	require.NoError(t, err)
	assert.Equal(t, 200.0, aggregator.Total(byCat))
	assert.Zero(t, q.Total())
}
