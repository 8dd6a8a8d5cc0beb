package actionable

import (
	"fmt"

	"jobdemand-go/internal/aggregator"
	"jobdemand-go/internal/pipeline"
	"jobdemand-go/internal/types"
)

type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

// Generate summarises the strongest demand signal in a pipeline result.
func Generate(res pipeline.Result) ActionCard {
	total := aggregator.Total(res.Demand)
	if len(res.Top) == 0 || total <= 0 {
		return ActionCard{
			Insight: "No categorised demand found",
			Action:  "Check the categories column and the category map",
			Impact:  fmt.Sprintf("%d of %d postings could not be categorised", res.Uncategorized, res.Records),
		}
	}
	top := res.Top[0]
	cat, _ := top.Value(types.DimCategory)
	level, _ := top.Value(types.DimPositionLevel)
	title, _ := top.Value(types.DimTitle)
	share := top.Measure / total
	card := ActionCard{
		Insight: fmt.Sprintf("%s / %s / %s leads with %.0f applications (%.0f%% of categorised demand)",
			cat.Label("unknown category"), level.Label("unspecified level"), title.Label("untitled"), top.Measure, share*100),
		Action: fmt.Sprintf("Prioritise %s postings at %s level", cat.Label("uncategorised"), level.Label("any")),
		Impact: "Targets the highest application volume",
	}
	if share >= 0.35 {
		card.Impact = "Concentrated demand: a single combination dominates applications"
	}
	return card
}
