package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jobdemand-go/internal/quality"
	"jobdemand-go/internal/types"
)

func newTestExtractor() (*Extractor, *quality.Tracker) {
	q := quality.NewTracker(nil)
	r := NewResolver(map[int]string{7: "Consulting", 14: "Events"})
	return NewExtractor(r, q), q
}

func TestExtract_InvalidLiteral(t *testing.T) {
	e, q := newTestExtractor()

	got := e.Extract("not a valid literal")

	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Equal(t, 1, q.Count(quality.MalformedCategoryData))
	assert.Equal(t, 1, q.Summary().Total())
}

func TestExtract_Shapes(t *testing.T) {
	tests := []struct {
		name       string
		raw        any
		want       []string
		malformed  int
		unresolved int
	}{
		{name: "nil", raw: nil, want: []string{}},
		{name: "blank text", raw: "   ", want: []string{}},
		{name: "python literal", raw: "[{'id': 7, 'category': 'Consulting'}, {'id': 14, 'category': 'Events'}]", want: []string{"Consulting", "Events"}},
		{name: "json literal", raw: `[{"id": 14}]`, want: []string{"Events"}},
		{name: "inline name fallback", raw: "[{'id': 99, 'category': 'Engineering'}]", want: []string{"Engineering"}},
		{name: "categoryName key", raw: `[{"categoryName": "Banking"}]`, want: []string{"Banking"}},
		{name: "None literal", raw: "None", want: []string{}},
		{name: "trailing comma and tuple", raw: "({'id': 7},)", want: []string{"Consulting"}},
		{name: "duplicates preserved", raw: "[{'id': 7}, {'id': 7}]", want: []string{"Consulting", "Consulting"}},
		{name: "unresolved dropped", raw: "[{'id': 7}, {'id': 99}]", want: []string{"Consulting"}, unresolved: 1},
		{name: "non-map item unresolved", raw: "[7, {'id': 14}]", want: []string{"Events"}, unresolved: 1},
		{name: "unterminated string", raw: "[{'id': 7, 'category': 'Consul", want: []string{}, malformed: 1},
		{name: "dict is not a list", raw: "{'id': 7}", want: []string{}, malformed: 1},
		{name: "unexpected scalar", raw: 42, want: []string{}, malformed: 1},
		{name: "structured entries", raw: []types.CategoryEntry{{ID: ptr(14)}, {Name: ptr("Banking")}}, want: []string{"Events", "Banking"}},
		{name: "decoded maps", raw: []any{map[string]any{"id": float64(7)}}, want: []string{"Consulting"}},
		{name: "whole float id", raw: "[{'id': 7.0}]", want: []string{"Consulting"}},
		{name: "fractional id falls back to name", raw: "[{'id': 7.9, 'category': 'Engineering'}]", want: []string{"Engineering"}},
		{name: "fractional id without name", raw: "[{'id': 7.9}]", want: []string{}, unresolved: 1},
		{name: "boolean id", raw: "[{'id': True}]", want: []string{}, unresolved: 1},
		{name: "text id", raw: "[{'id': '7'}]", want: []string{}, unresolved: 1},
		{name: "leading dot number", raw: "[{'id': .5, 'category': 'Banking'}]", want: []string{"Banking"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, q := newTestExtractor()
			got := e.Extract(tc.raw)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.malformed, q.Count(quality.MalformedCategoryData))
			assert.Equal(t, tc.unresolved, q.Count(quality.UnresolvedCategoryID))
		})
	}
}

func TestExtractAll_IndexAligned(t *testing.T) {
	e, q := newTestExtractor()
	records := []types.Record{
		{RawCategories: "[{'id': 7}]"},
		{RawCategories: "garbage"},
		{RawCategories: nil},
	}

	got := e.ExtractAll(records)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"Consulting"}, got[0])
	assert.Empty(t, got[1])
	assert.Empty(t, got[2])
	assert.Equal(t, 1, q.Count(quality.MalformedCategoryData))
}

func TestParse_EscapedQuotes(t *testing.T) {
	entries, err := Parse(`[{'id': 1, 'category': 'Kid\'s Wear'}]`)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Name)
	assert.Equal(t, "Kid's Wear", *entries[0].Name)
	assert.Equal(t, 1, *entries[0].ID)
}

func TestParse_PythonEscapes(t *testing.T) {
	entries, err := Parse(`[{'category': 'Caf\u00e9 \xe9 \\ a\qb', 'id': 5.}]`)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Name)
	assert.Equal(t, "Café é \\ a\\qb", *entries[0].Name)
	assert.Equal(t, 5, *entries[0].ID)
}
