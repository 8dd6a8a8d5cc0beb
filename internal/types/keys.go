// internal/types/keys.go
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument marks caller contract violations. Data-quality problems
// never use it.
var ErrInvalidArgument = errors.New("invalid argument")

// Dimension names a groupable field of a record or exploded row.
type Dimension string

const (
	DimCategory      Dimension = "category"
	DimPositionLevel Dimension = "positionLevel"
	DimTitle         Dimension = "title"
)

// ParseDimension accepts the canonical names plus a few spellings used by the
// source CSV headers.
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "category", "categories", "flattened_categories":
		return DimCategory, nil
	case "positionlevel", "positionlevels", "position_level", "level":
		return DimPositionLevel, nil
	case "title":
		return DimTitle, nil
	}
	return "", fmt.Errorf("%w: unknown dimension %q", ErrInvalidArgument, s)
}

// ParseDimensions splits a comma separated list.
func ParseDimensions(s string) ([]Dimension, error) {
	var out []Dimension
	for _, p := range strings.Split(s, ",") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		d, err := ParseDimension(p)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Key is one dimension value. The zero Key is the null key: it groups with
// other nulls and is never dropped.
type Key struct {
	Value string
	Valid bool
}

// Known wraps a present value.
func Known(v string) Key { return Key{Value: v, Valid: true} }

// Null is the absent value.
var Null = Key{}

// OptionalKey treats blank text as absent.
func OptionalKey(v string) Key {
	v = strings.TrimSpace(v)
	if v == "" {
		return Null
	}
	return Known(v)
}

// Label renders the key, substituting placeholder for null.
func (k Key) Label(placeholder string) string {
	if !k.Valid {
		return placeholder
	}
	return k.Value
}

func (k Key) String() string { return k.Label("<null>") }

// Compare orders null before any value, values lexicographically.
func (k Key) Compare(o Key) int {
	switch {
	case k.Valid == o.Valid:
		return strings.Compare(k.Value, o.Value)
	case !k.Valid:
		return -1
	default:
		return 1
	}
}

func (k Key) MarshalJSON() ([]byte, error) {
	if !k.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(k.Value)
}

// CompareKeys orders two key tuples lexicographically.
func CompareKeys(a, b []Key) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := a[i].Compare(b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}
