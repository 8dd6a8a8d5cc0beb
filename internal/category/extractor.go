package category

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"jobdemand-go/internal/quality"
	"jobdemand-go/internal/types"
)

// ErrMalformed is returned by Parse for text that is not a literal list or a
// value of an unexpected shape.
var ErrMalformed = errors.New("malformed category data")

// Parse normalises a raw categories value into entries. A nil slice with a
// nil error means the field was absent.
func Parse(raw any) ([]types.CategoryEntry, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []types.CategoryEntry:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		parsed, err := parseLiteral(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if parsed == nil {
			return nil, nil
		}
		return Parse(parsed)
	case []any:
		out := make([]types.CategoryEntry, 0, len(v))
		for _, item := range v {
			m, _ := item.(map[string]any)
			out = append(out, entryFromMap(m))
		}
		return out, nil
	case []map[string]any:
		out := make([]types.CategoryEntry, 0, len(v))
		for _, m := range v {
			out = append(out, entryFromMap(m))
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unexpected type %T", ErrMalformed, raw)
}

func entryFromMap(m map[string]any) types.CategoryEntry {
	var e types.CategoryEntry
	if m == nil {
		return e
	}
	if raw, ok := m["id"]; ok && raw != nil {
		if id, ok := integralID(raw); ok {
			e.ID = &id
		}
	}
	for _, k := range []string{"categoryName", "category"} {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			e.Name = &s
			break
		}
	}
	return e
}

// integralID accepts whole numbers only. Booleans, text and fractional values
// are not ids, so the entry falls back to its inline name.
func integralID(raw any) (int, bool) {
	switch v := raw.(type) {
	case bool, string:
		return 0, false
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return 0, false
		}
		return int(v), true
	case float32:
		return integralID(float64(v))
	}
	id, err := cast.ToIntE(raw)
	return id, err == nil
}

// Extractor resolves raw categories fields into display names, recording
// malformed and unresolved input on the tracker instead of failing.
type Extractor struct {
	resolver *Resolver
	quality  *quality.Tracker
}

func NewExtractor(r *Resolver, q *quality.Tracker) *Extractor {
	return &Extractor{resolver: r, quality: q}
}

// Extract returns the resolved names in input order. Duplicates are kept.
func (e *Extractor) Extract(raw any) []string {
	return e.extract(-1, raw)
}

// ExtractAll returns one name list per record, index aligned.
func (e *Extractor) ExtractAll(records []types.Record) [][]string {
	out := make([][]string, len(records))
	for i, r := range records {
		out[i] = e.extract(i, r.RawCategories)
	}
	return out
}

func (e *Extractor) extract(idx int, raw any) []string {
	entries, err := Parse(raw)
	if err != nil {
		e.quality.Signal(quality.MalformedCategoryData, logrus.Fields{"record": idx, "error": err.Error()})
		return []string{}
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name, ok := e.resolver.Resolve(entry.ID, entry.Name)
		if !ok {
			fields := logrus.Fields{"record": idx}
			if entry.ID != nil {
				fields["id"] = *entry.ID
			}
			e.quality.Signal(quality.UnresolvedCategoryID, fields)
			continue
		}
		names = append(names, name)
	}
	return names
}
