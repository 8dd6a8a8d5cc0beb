// Package exploder expands records into one row per (record, category) pair.
package exploder

import (
	"fmt"
	"strings"

	"jobdemand-go/internal/types"
)

// Policy decides what happens to records with no resolved category.
type Policy int

const (
	// DropUncategorized excludes them from category-scoped views.
	DropUncategorized Policy = iota
	// BucketUncategorized emits a single row under UncategorizedLabel.
	BucketUncategorized
)

const UncategorizedLabel = "Uncategorized"

// ParsePolicy reads "drop" or "bucket".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop":
		return DropUncategorized, nil
	case "bucket":
		return BucketUncategorized, nil
	}
	return 0, fmt.Errorf("%w: unknown uncategorized policy %q", types.ErrInvalidArgument, s)
}

func (p Policy) String() string {
	if p == BucketUncategorized {
		return "bucket"
	}
	return "drop"
}

// Explode pairs records with their category lists. categories must be index
// aligned with records.
func Explode(records []types.Record, categories [][]string, policy Policy) ([]types.ExplodedRow, error) {
	if len(records) != len(categories) {
		return nil, fmt.Errorf("%w: %d records but %d category lists", types.ErrInvalidArgument, len(records), len(categories))
	}
	out := make([]types.ExplodedRow, 0, len(records))
	for i, r := range records {
		cats := categories[i]
		if len(cats) == 0 {
			if policy != BucketUncategorized {
				continue
			}
			cats = []string{UncategorizedLabel}
		}
		for _, c := range cats {
			out = append(out, types.ExplodedRow{
				SourceIndex:      i,
				Title:            r.Title,
				PositionLevel:    r.PositionLevel,
				ApplicationCount: r.ApplicationCount,
				Category:         c,
			})
		}
	}
	return out, nil
}

// Uncategorized returns the indexes of records with an empty category list.
func Uncategorized(categories [][]string) []int {
	var idx []int
	for i, c := range categories {
		if len(c) == 0 {
			idx = append(idx, i)
		}
	}
	return idx
}
