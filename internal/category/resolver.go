// Package category turns the raw categories field of a job posting into
// display names.
package category

import (
	"maps"
)

// DefaultNames is the built-in id to display-name table.
func DefaultNames() map[int]string {
	return map[int]string{
		7:  "Consulting",
		14: "Events / Promotions",
		24: "Logistics / Supply Chain",
		29: "Professional Services",
		35: "Sales / Retail",
	}
}

// Resolver maps category ids to display names. It is immutable once built.
type Resolver struct {
	names map[int]string
}

// NewResolver copies names so later changes by the caller cannot leak into a run.
func NewResolver(names map[int]string) *Resolver {
	return &Resolver{names: maps.Clone(names)}
}

// Name looks up the static table only.
func (r *Resolver) Name(id int) (string, bool) {
	if r == nil {
		return "", false
	}
	n, ok := r.names[id]
	return n, ok
}

// Resolve returns the registered name for id, else fallback unchanged.
// ok is false when neither is available.
func (r *Resolver) Resolve(id *int, fallback *string) (string, bool) {
	if id != nil {
		if n, ok := r.Name(*id); ok {
			return n, true
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return "", false
}

// Len is the number of registered ids.
func (r *Resolver) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}
