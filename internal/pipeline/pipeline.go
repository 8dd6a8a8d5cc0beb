// internal/pipeline/pipeline.go
package pipeline

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
	"jobdemand-go/internal/aggregator"
	"jobdemand-go/internal/category"
	"jobdemand-go/internal/exploder"
	"jobdemand-go/internal/hierarchy"
	"jobdemand-go/internal/pivot"
	"jobdemand-go/internal/quality"
	"jobdemand-go/internal/rank"
	"jobdemand-go/internal/types"
)

// DemandDimensions is the finest grouping the pipeline produces.
var DemandDimensions = []types.Dimension{types.DimCategory, types.DimPositionLevel, types.DimTitle}

type Options struct {
	Resolver  *category.Resolver
	Policy    exploder.Policy
	TopK      int
	TitleTopK int
	Log       *logrus.Entry
}

func DefaultOptions() Options {
	return Options{
		Resolver:  category.NewResolver(category.DefaultNames()),
		Policy:    exploder.DropUncategorized,
		TopK:      10,
		TitleTopK: 20,
	}
}

type Result struct {
	Records       int `json:"records"`
	Exploded      int `json:"exploded_rows"`
	Uncategorized int `json:"uncategorized_records"`
	// Demand is aggregated by category, position level and title.
	Demand         []types.AggregateRow `json:"-"`
	ByCategory     []types.AggregateRow `json:"by_category"`
	Top            []types.AggregateRow `json:"top"`
	Heatmap        pivot.Table          `json:"heatmap"`
	Tree           *hierarchy.Node      `json:"tree"`
	PositionDemand []types.AggregateRow `json:"position_demand"`
	TitleDemand    []types.AggregateRow `json:"title_demand"`
	Quality        quality.Summary      `json:"quality"`
}

// Run computes every derived view from records. Nothing is kept between runs.
func Run(records []types.Record, opts Options) (Result, error) {
	log := entry(opts).WithField("records", len(records))
	res := Result{Records: len(records)}
	q := quality.NewTracker(log)

	cats := category.NewExtractor(resolver(opts), q).ExtractAll(records)
	rows, err := exploder.Explode(records, cats, opts.Policy)
	if err != nil {
		return res, err
	}
	res.Exploded = len(rows)
	res.Uncategorized = len(exploder.Uncategorized(cats))

	signalNonNumeric(records, q)
	if res.Demand, err = aggregator.Aggregate(rows, DemandDimensions, nil); err != nil {
		return res, err
	}
	if res.Top, err = rank.TopK(res.Demand, opts.TopK); err != nil {
		return res, err
	}
	byCat, err := aggregator.Aggregate(rows, []types.Dimension{types.DimCategory}, nil)
	if err != nil {
		return res, err
	}
	res.ByCategory = rank.Sort(byCat)
	if res.Heatmap, err = pivot.Build(res.Demand, types.DimCategory, types.DimPositionLevel); err != nil {
		return res, err
	}
	if res.Tree, err = hierarchy.Build(res.Demand, DemandDimensions); err != nil {
		return res, err
	}

	// Record-level views do not need category granularity.
	byLevel, err := aggregator.Aggregate(records, []types.Dimension{types.DimPositionLevel}, nil)
	if err != nil {
		return res, err
	}
	res.PositionDemand = rank.Sort(byLevel)
	byTitle, err := aggregator.Aggregate(records, []types.Dimension{types.DimTitle}, nil)
	if err != nil {
		return res, err
	}
	if res.TitleDemand, err = rank.TopK(byTitle, opts.TitleTopK); err != nil {
		return res, err
	}

	res.Quality = q.Flush()
	log.WithFields(logrus.Fields{
		"exploded_rows": res.Exploded,
		"uncategorized": res.Uncategorized,
		"groups":        len(res.Demand),
	}).Info("pipeline finished")
	return res, nil
}

// Aggregate groups by dims, exploding by category only when dims asks for it.
func Aggregate(records []types.Record, dims []types.Dimension, opts Options) ([]types.AggregateRow, quality.Summary, error) {
	q := quality.NewTracker(entry(opts))
	if !slices.Contains(dims, types.DimCategory) {
		out, err := aggregator.Aggregate(records, dims, q)
		return out, q.Flush(), err
	}
	rows, err := Explode(records, opts, q)
	if err != nil {
		return nil, q.Summary(), err
	}
	signalNonNumeric(records, q)
	out, err := aggregator.Aggregate(rows, dims, nil)
	return out, q.Flush(), err
}

// signalNonNumeric counts bad measures once per record rather than once per
// exploded row.
func signalNonNumeric(records []types.Record, q *quality.Tracker) {
	for i, r := range records {
		if r.ApplicationCount.NonNumeric() {
			q.Signal(quality.NonNumericMeasure, logrus.Fields{"record": i, "value": r.ApplicationCount.Raw})
		}
	}
}

// Explode runs extraction and explosion, signalling on q.
func Explode(records []types.Record, opts Options, q *quality.Tracker) ([]types.ExplodedRow, error) {
	cats := category.NewExtractor(resolver(opts), q).ExtractAll(records)
	rows, err := exploder.Explode(records, cats, opts.Policy)
	if err != nil {
		return nil, fmt.Errorf("explode: %w", err)
	}
	return rows, nil
}

func resolver(opts Options) *category.Resolver {
	if opts.Resolver == nil {
		return category.NewResolver(category.DefaultNames())
	}
	return opts.Resolver
}

func entry(opts Options) *logrus.Entry {
	if opts.Log != nil {
		return opts.Log.WithField("component", "pipeline")
	}
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return logrus.NewEntry(l).WithField("component", "pipeline")
}
