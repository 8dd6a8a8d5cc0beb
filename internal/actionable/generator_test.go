package actionable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jobdemand-go/internal/category"
	"jobdemand-go/internal/pipeline"
	"jobdemand-go/internal/types"
)

func TestGenerate_TopCombination(t *testing.T) {
	recs := []types.Record{
		{Title: types.Known("Analyst"), PositionLevel: types.Known("Entry"), ApplicationCount: types.ParseCount(150), RawCategories: "[{'id': 7}]"},
		{Title: types.Known("Promoter"), PositionLevel: types.Known("Entry"), ApplicationCount: types.ParseCount(50), RawCategories: "[{'id': 14}]"},
	}
	opts := pipeline.DefaultOptions()
	opts.Resolver = category.NewResolver(map[int]string{7: "Consulting", 14: "Events"})
	res, err := pipeline.Run(recs, opts)
	require.NoError(t, err)

	card := Generate(res)
	assert.Equal(t, "Consulting / Entry / Analyst leads with 150 applications (75% of categorised demand)", card.Insight)
	assert.Equal(t, "Prioritise Consulting postings at Entry level", card.Action)
	assert.Contains(t, card.Impact, "Concentrated")
}

func TestGenerate_NoDemand(t *testing.T) {
	res, err := pipeline.Run([]types.Record{{Title: types.Known("Cook")}}, pipeline.DefaultOptions())
	require.NoError(t, err)

	card := Generate(res)
	assert.Equal(t, "No categorised demand found", card.Insight)
	assert.Equal(t, "1 of 1 postings could not be categorised", card.Impact)
}
