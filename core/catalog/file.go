// Package catalog - On-disk catalog schema
// One schema serves every supported file format. Rates are pointers so that an
// absent or null price stays distinct from a zero price.
package catalog

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"rag-cost/core/types"
	"rag-cost/internal/errors"
)

// FileCatalog is the root of a catalog file
type FileCatalog struct {
	Groups []FileGroup `json:"groups" yaml:"groups" toml:"groups" hcl:"group,block"`
}

// FileGroup is one provider group in a catalog file
type FileGroup struct {
	Name    string      `json:"name" yaml:"name" toml:"name" hcl:"name,label"`
	Kind    string      `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty" hcl:"kind,optional" jsonschema:"enum=llm,enum=compute,enum=storage,enum=vector"`
	Region  string      `json:"region,omitempty" yaml:"region,omitempty" toml:"region,omitempty" hcl:"region,optional"`
	Entries []FileEntry `json:"entries" yaml:"entries" toml:"entries" hcl:"entry,block"`
}

// FileEntry is one price entry in a catalog file.
// Kind and Region fall back to the group's values; UnitScale falls back to
// the kind's default.
type FileEntry struct {
	ID               string   `json:"id" yaml:"id" toml:"id" hcl:"id,label"`
	DisplayName      string   `json:"display_name,omitempty" yaml:"display_name,omitempty" toml:"display_name,omitempty" hcl:"display_name,optional"`
	Kind             string   `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty" hcl:"kind,optional" jsonschema:"enum=llm,enum=compute,enum=storage,enum=vector"`
	Region           string   `json:"region,omitempty" yaml:"region,omitempty" toml:"region,omitempty" hcl:"region,optional"`
	Description      string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty" hcl:"description,optional"`
	InputPrice       *float64 `json:"input_price,omitempty" yaml:"input_price,omitempty" toml:"input_price,omitempty" hcl:"input_price,optional" jsonschema:"minimum=0"`
	CachedInputPrice *float64 `json:"cached_input_price,omitempty" yaml:"cached_input_price,omitempty" toml:"cached_input_price,omitempty" hcl:"cached_input_price,optional" jsonschema:"minimum=0"`
	OutputPrice      *float64 `json:"output_price,omitempty" yaml:"output_price,omitempty" toml:"output_price,omitempty" hcl:"output_price,optional" jsonschema:"minimum=0"`
	UnitScale        *float64 `json:"unit_scale,omitempty" yaml:"unit_scale,omitempty" toml:"unit_scale,omitempty" hcl:"unit_scale,optional" jsonschema:"exclusiveMinimum=0"`
}

// ToGroups converts the file into catalog groups without running the
// validation rules. It fails only on prices that have no decimal form.
func (f *FileCatalog) ToGroups() ([]Group, error) {
	var errs error
	groups := make([]Group, 0, len(f.Groups))
	for _, fg := range f.Groups {
		g := Group{
			Name:    fg.Name,
			Kind:    types.Kind(fg.Kind),
			Entries: make([]types.PriceEntry, 0, len(fg.Entries)),
		}
		for _, fe := range fg.Entries {
			e, err := fe.toEntry(fg)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s/%s: %w", fg.Name, fe.ID, err))
				continue
			}
			g.Entries = append(g.Entries, e)
		}
		groups = append(groups, g)
	}
	if errs != nil {
		return nil, errors.Wrap(errors.TypeInvalidCatalog,
			fmt.Sprintf("catalog has %d validation errors", len(multierr.Errors(errs))), errs)
	}
	return groups, nil
}

// ToCatalog converts and validates the file
func (f *FileCatalog) ToCatalog() (*Catalog, error) {
	groups, err := f.ToGroups()
	if err != nil {
		return nil, err
	}
	return New(groups)
}

func (fe FileEntry) toEntry(fg FileGroup) (types.PriceEntry, error) {
	kind := types.Kind(fe.Kind)
	if kind == "" {
		kind = types.Kind(fg.Kind)
	}
	region := fe.Region
	if region == "" {
		region = fg.Region
	}
	name := fe.DisplayName
	if name == "" {
		name = fe.ID
	}

	scale := kind.DefaultUnitScale()
	if fe.UnitScale != nil {
		if !finite(*fe.UnitScale) {
			return types.PriceEntry{}, fmt.Errorf("unit_scale must be finite, got %v", *fe.UnitScale)
		}
		scale = decimal.NewFromFloat(*fe.UnitScale)
	}

	var rates types.Rates
	for _, r := range []struct {
		name string
		src  *float64
		dst  *decimal.NullDecimal
	}{
		{"input_price", fe.InputPrice, &rates.Input},
		{"cached_input_price", fe.CachedInputPrice, &rates.CachedInput},
		{"output_price", fe.OutputPrice, &rates.Output},
	} {
		if r.src == nil {
			continue
		}
		if !finite(*r.src) {
			return types.PriceEntry{}, fmt.Errorf("%s must be finite, got %v", r.name, *r.src)
		}
		*r.dst = types.Rate(*r.src)
	}

	return types.PriceEntry{
		ID:          fe.ID,
		DisplayName: name,
		Provider:    fg.Name,
		Region:      region,
		Kind:        kind,
		Description: fe.Description,
		Rates:       rates,
		UnitScale:   scale,
	}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Export converts a catalog back into the file schema
func Export(c *Catalog) *FileCatalog {
	f := &FileCatalog{Groups: make([]FileGroup, 0, len(c.groups))}
	for _, g := range c.groups {
		fg := FileGroup{Name: g.Name, Kind: string(g.Kind)}
		for _, e := range g.Entries {
			fe := FileEntry{
				ID:               e.ID,
				DisplayName:      e.DisplayName,
				Region:           e.Region,
				Description:      e.Description,
				InputPrice:       floatPtr(e.Rates.Input),
				CachedInputPrice: floatPtr(e.Rates.CachedInput),
				OutputPrice:      floatPtr(e.Rates.Output),
			}
			if e.Kind != g.Kind {
				fe.Kind = string(e.Kind)
			}
			if !e.UnitScale.Equal(e.Kind.DefaultUnitScale()) {
				s := e.UnitScale.InexactFloat64()
				fe.UnitScale = &s
			}
			fg.Entries = append(fg.Entries, fe)
		}
		f.Groups = append(f.Groups, fg)
	}
	return f
}

func floatPtr(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	v := d.Decimal.InexactFloat64()
	return &v
}
