// Package ranking - Catalog filtering
package ranking

import (
	"strings"

	"rag-cost/core/types"
)

// Wildcard matches any value in a Filter field. An empty field matches too.
const Wildcard = "all"

// Filter selects catalog entries. Provider, Region and Kind are equality
// matches (case-insensitive) or wildcards. Where is an optional CEL
// expression evaluated after the entry has been priced.
type Filter struct {
	// Provider matches the entry's group
	Provider string `json:"provider,omitempty"`

	// Region matches the entry's region
	Region string `json:"region,omitempty"`

	// Kind matches the entry's kind
	Kind types.Kind `json:"kind,omitempty"`

	// Where is a boolean CEL expression over entry.* and cost.*
	Where string `json:"where,omitempty"`
}

// Matches reports whether e passes the equality fields of f
func (f Filter) Matches(e types.PriceEntry) bool {
	return matchField(f.Provider, e.Provider) &&
		matchField(f.Region, e.Region) &&
		matchField(string(f.Kind), string(e.Kind))
}

func matchField(want, got string) bool {
	if want == "" || strings.EqualFold(want, Wildcard) {
		return true
	}
	return strings.EqualFold(want, got)
}
