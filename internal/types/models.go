package types

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/spf13/cast"
)

// Count is an application count as found in the input. Missing values are
// not Valid and have no Raw text; non-numeric values keep their Raw text.
type Count struct {
	Value float64
	Valid bool
	Raw   string
}

// ParseCount coerces a cell value into a Count.
func ParseCount(v any) Count {
	if v == nil {
		return Count{}
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, "nan") {
			return Count{}
		}
		v = s
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return Count{Raw: fmt.Sprint(v)}
	}
	if math.IsNaN(f) {
		return Count{}
	}
	return Count{Value: f, Valid: true}
}

// NonNumeric reports a value that was present but not coercible.
func (c Count) NonNumeric() bool { return !c.Valid && c.Raw != "" }

// Row is anything the aggregator can group.
type Row interface {
	Field(d Dimension) (Key, bool)
	Applications() Count
}

// Record is one job posting.
type Record struct {
	Title            Key   `json:"title"`
	PositionLevel    Key   `json:"positionLevel"`
	ApplicationCount Count `json:"-"`
	// RawCategories is nil, literal text, []CategoryEntry or a decoded []any.
	RawCategories any `json:"-"`
}

func (r Record) Field(d Dimension) (Key, bool) {
	switch d {
	case DimTitle:
		return r.Title, true
	case DimPositionLevel:
		return r.PositionLevel, true
	}
	return Null, false
}

func (r Record) Applications() Count { return r.ApplicationCount }

// CategoryEntry is one raw {id, categoryName} item. Either side may be absent.
type CategoryEntry struct {
	ID   *int    `json:"id,omitempty" yaml:"id"`
	Name *string `json:"categoryName,omitempty" yaml:"name"`
}

// ExplodedRow is one (record, category) pair.
type ExplodedRow struct {
	SourceIndex      int    `json:"sourceRecordIndex"`
	Title            Key    `json:"title"`
	PositionLevel    Key    `json:"positionLevel"`
	ApplicationCount Count  `json:"-"`
	Category         string `json:"category"`
}

func (r ExplodedRow) Field(d Dimension) (Key, bool) {
	switch d {
	case DimCategory:
		return Known(r.Category), true
	case DimTitle:
		return r.Title, true
	case DimPositionLevel:
		return r.PositionLevel, true
	}
	return Null, false
}

func (r ExplodedRow) Applications() Count { return r.ApplicationCount }

// AggregateRow is one distinct key combination and its summed measure.
type AggregateRow struct {
	Dimensions []Dimension
	Key        []Key
	Measure    float64
}

// Value returns the key component for d.
func (r AggregateRow) Value(d Dimension) (Key, bool) {
	for i, dim := range r.Dimensions {
		if dim == d {
			return r.Key[i], true
		}
	}
	return Null, false
}

// MarshalJSON flattens the key tuple into named fields next to
// totalApplications.
func (r AggregateRow) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Dimensions)+1)
	for i, d := range r.Dimensions {
		m[string(d)] = r.Key[i]
	}
	m["totalApplications"] = r.Measure
	return json.Marshal(m)
}

// SumMeasures adds vs in ascending order so the total does not depend on the
// order the values arrived in. vs is sorted in place.
func SumMeasures(vs []float64) float64 {
	slices.Sort(vs)
	var t float64
	for _, v := range vs {
		t += v
	}
	return t
}
