package dataset

import (
	"jobdemand-go/internal/types"
)

// Summary describes a loaded record table before any category handling.
type Summary struct {
	TotalRecords           int     `json:"total_records"`
	TotalApplications      float64 `json:"total_applications"`
	UniqueTitles           int     `json:"unique_titles"`
	UniquePositionLevels   int     `json:"unique_position_levels"`
	MissingPositionLevel   int     `json:"missing_position_level"`
	MissingApplications    int     `json:"missing_applications"`
	WithCategoriesField    int     `json:"with_categories_field"`
	WithoutCategoriesField int     `json:"without_categories_field"`
}

// Summarize counts totals and distinct values over records.
func Summarize(records []types.Record) Summary {
	titles := map[types.Key]struct{}{}
	levels := map[types.Key]struct{}{}
	var apps []float64
	s := Summary{TotalRecords: len(records)}
	for _, r := range records {
		titles[r.Title] = struct{}{}
		if r.PositionLevel.Valid {
			levels[r.PositionLevel] = struct{}{}
		} else {
			s.MissingPositionLevel++
		}
		if r.ApplicationCount.Valid {
			apps = append(apps, r.ApplicationCount.Value)
		} else {
			s.MissingApplications++
		}
		if r.RawCategories != nil {
			s.WithCategoriesField++
		} else {
			s.WithoutCategoriesField++
		}
	}
	s.TotalApplications = types.SumMeasures(apps)
	s.UniqueTitles = len(titles)
	s.UniquePositionLevels = len(levels)
	return s
}
