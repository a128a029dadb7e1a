// Package catalog - Validated price catalog
// A Catalog is built once from groups of entries and is read-only afterwards,
// so any number of goroutines may share it.
package catalog

import (
	"sort"
	"strings"

	"rag-cost/core/types"
	"rag-cost/internal/errors"
)

// Group is a named list of entries, usually one vendor or instance family
type Group struct {
	// Name is the grouping key, e.g. "OpenAI" or "EC2-GPU"
	Name string `json:"name"`

	// Kind is the default kind of the group's entries
	Kind types.Kind `json:"kind,omitempty"`

	// Entries are the group's price entries in catalog order
	Entries []types.PriceEntry `json:"entries"`
}

// Catalog is an immutable, validated set of price entries
type Catalog struct {
	groups []Group
	index  map[string]int
}

// New validates groups with the default rules and builds a catalog.
// The input slices are copied.
func New(groups []Group) (*Catalog, error) {
	return NewWithRules(groups, DefaultValidationRules())
}

// NewWithRules validates groups with rules and builds a catalog
func NewWithRules(groups []Group, rules []ValidationRule) (*Catalog, error) {
	copied := make([]Group, len(groups))
	for i, g := range groups {
		copied[i] = Group{
			Name:    g.Name,
			Kind:    g.Kind,
			Entries: append([]types.PriceEntry(nil), g.Entries...),
		}
	}

	if err := Validate(copied, rules); err != nil {
		return nil, err
	}

	c := &Catalog{
		groups: copied,
		index:  make(map[string]int, len(copied)),
	}
	for i, g := range copied {
		c.index[strings.ToLower(g.Name)] = i
	}
	return c, nil
}

// Groups returns the catalog groups in load order
func (c *Catalog) Groups() []Group {
	out := make([]Group, len(c.groups))
	for i, g := range c.groups {
		out[i] = Group{
			Name:    g.Name,
			Kind:    g.Kind,
			Entries: append([]types.PriceEntry(nil), g.Entries...),
		}
	}
	return out
}

// Group returns the named group. Names match case-insensitively.
func (c *Catalog) Group(name string) (Group, bool) {
	i, ok := c.index[strings.ToLower(name)]
	if !ok {
		return Group{}, false
	}
	g := c.groups[i]
	return Group{Name: g.Name, Kind: g.Kind, Entries: append([]types.PriceEntry(nil), g.Entries...)}, true
}

// Entries returns every entry in catalog order
func (c *Catalog) Entries() []types.PriceEntry {
	var out []types.PriceEntry
	for _, g := range c.groups {
		out = append(out, g.Entries...)
	}
	return out
}

// Lookup finds one entry by group and id
func (c *Catalog) Lookup(group, id string) (types.PriceEntry, error) {
	i, ok := c.index[strings.ToLower(group)]
	if !ok {
		return types.PriceEntry{}, errors.NotFound("group", group)
	}
	for _, e := range c.groups[i].Entries {
		if e.ID == id {
			return e, nil
		}
	}
	return types.PriceEntry{}, errors.NotFound("entry", group+"/"+id)
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	n := 0
	for _, g := range c.groups {
		n += len(g.Entries)
	}
	return n
}

// Providers returns the group names in load order
func (c *Catalog) Providers() []string {
	out := make([]string, len(c.groups))
	for i, g := range c.groups {
		out[i] = g.Name
	}
	return out
}

// Regions returns the distinct non-empty regions, sorted
func (c *Catalog) Regions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range c.groups {
		for _, e := range g.Entries {
			if e.Region != "" && !seen[e.Region] {
				seen[e.Region] = true
				out = append(out, e.Region)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Stats returns catalog statistics
func (c *Catalog) Stats() Stats {
	stats := Stats{
		Groups: len(c.groups),
		ByKind: make(map[types.Kind]int),
	}
	for _, g := range c.groups {
		for _, e := range g.Entries {
			stats.Total++
			stats.ByKind[e.Kind]++
			if e.Rates.HasCache() {
				stats.WithCache++
			}
		}
	}
	return stats
}

// Stats holds catalog statistics
type Stats struct {
	Total     int                `json:"total"`
	Groups    int                `json:"groups"`
	ByKind    map[types.Kind]int `json:"by_kind"`
	WithCache int                `json:"with_cache"`
}
