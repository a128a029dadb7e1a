// Package types - Price entry types
package types

import (
	"github.com/shopspring/decimal"

	"rag-cost/internal/errors"
)

// Kind tags what sort of thing a price entry bills for
type Kind string

const (
	// KindLLM is token pricing for a language model
	KindLLM Kind = "llm"

	// KindCompute is hourly pricing for an instance type
	KindCompute Kind = "compute"

	// KindStorage is GB-month pricing for a storage tier
	KindStorage Kind = "storage"

	// KindVector is yearly pricing per million DSU for a vector database
	KindVector Kind = "vector"
)

// Kinds lists every known kind in display order
var Kinds = []Kind{KindLLM, KindCompute, KindStorage, KindVector}

// String returns the string representation
func (k Kind) String() string {
	return string(k)
}

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// DefaultUnitScale is the quoting denominator used when a catalog omits one.
// Storage prices are per GB-month and usage is in GB-days, so the scale is 30.
// Vector prices are per million DSU-years and usage is in DSU-days.
func (k Kind) DefaultUnitScale() decimal.Decimal {
	switch k {
	case KindLLM:
		return decimal.NewFromInt(1_000_000)
	case KindStorage:
		return decimal.NewFromInt(DaysPerMonth)
	case KindVector:
		return decimal.NewFromInt(1_000_000 * 12 * DaysPerMonth)
	default:
		return decimal.NewFromInt(1)
	}
}

// UnitLabel names the usage unit for this kind
func (k Kind) UnitLabel() string {
	switch k {
	case KindLLM:
		return "tokens"
	case KindCompute:
		return "instance-hours"
	case KindStorage:
		return "GB-days"
	case KindVector:
		return "DSU-days"
	default:
		return "units"
	}
}

// Rate builds a present rate
func Rate(price float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(price))
}

// NoRate is an unavailable rate. It is not the same as a zero price.
var NoRate = decimal.NullDecimal{}

// Rates holds the per-unit prices of an entry.
// A rate that is not Valid means the feature is unavailable.
type Rates struct {
	// Input is the primary rate
	Input decimal.NullDecimal `json:"input"`

	// CachedInput is the rate for input served from cache
	CachedInput decimal.NullDecimal `json:"cached_input"`

	// Output is the rate for generated output
	Output decimal.NullDecimal `json:"output"`
}

// Priceable reports whether at least one rate is present
func (r Rates) Priceable() bool {
	return r.Input.Valid || r.CachedInput.Valid || r.Output.Valid
}

// HasCache reports whether the entry supports cached input pricing
func (r Rates) HasCache() bool {
	return r.CachedInput.Valid
}

// PriceEntry is one immutable catalog row
type PriceEntry struct {
	// ID is unique within the entry's provider group
	ID string `json:"id"`

	// DisplayName is the human-readable name
	DisplayName string `json:"display_name"`

	// Provider is the grouping key, e.g. "OpenAI" or "EC2-GPU"
	Provider string `json:"provider"`

	// Region is the vendor region, empty when not regional
	Region string `json:"region,omitempty"`

	// Kind tags the billing model
	Kind Kind `json:"kind"`

	// Description provides additional context
	Description string `json:"description,omitempty"`

	// Rates are the per-unit prices
	Rates Rates `json:"rates"`

	// UnitScale is the number of usage units each rate is quoted for
	UnitScale decimal.Decimal `json:"unit_scale"`
}

// Key returns the catalog-wide identity of the entry
func (e PriceEntry) Key() string {
	return e.Provider + "/" + e.ID
}

// Validate checks the entry can be priced
func (e PriceEntry) Validate() error {
	if !e.Rates.Priceable() {
		return errors.InvalidPriceEntry(e.ID, "entry %q has no rates: nothing to price", e.ID)
	}
	if !e.UnitScale.IsPositive() {
		return errors.InvalidPriceEntry(e.ID, "entry %q unit scale must be > 0, got %s", e.ID, e.UnitScale)
	}
	rates := []struct {
		name string
		rate decimal.NullDecimal
	}{
		{"input", e.Rates.Input},
		{"cached_input", e.Rates.CachedInput},
		{"output", e.Rates.Output},
	}
	for _, r := range rates {
		if r.rate.Valid && r.rate.Decimal.IsNegative() {
			return errors.InvalidPriceEntry(e.ID, "entry %q %s rate must be >= 0, got %s", e.ID, r.name, r.rate.Decimal)
		}
	}
	return nil
}
