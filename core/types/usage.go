// Package types - Usage profile types
package types

import (
	"math"

	"github.com/shopspring/decimal"

	"rag-cost/internal/errors"
)

// DaysPerMonth is the billing month length used by every estimate
const DaysPerMonth = 30

var daysPerMonth = decimal.NewFromInt(DaysPerMonth)

// UnitPlaces is the precision of monthly unit totals. Rounding there absorbs
// float noise from per-day figures such as 730/30 hours.
const UnitPlaces = 9

// UsageProfile is the set of usage figures a cost is estimated from.
// Units depend on the entry kind: tokens for LLM models, instance-hours for
// compute, GB-days for storage and DSU-days for vector units.
type UsageProfile struct {
	// QueriesPerDay is the number of billable requests per day
	QueriesPerDay float64 `json:"queries_per_day" yaml:"queries_per_day"`

	// InputUnitsPerQuery is the input volume of one request
	InputUnitsPerQuery float64 `json:"input_units_per_query" yaml:"input_units_per_query"`

	// OutputUnitsPerQuery is the output volume of one request
	OutputUnitsPerQuery float64 `json:"output_units_per_query" yaml:"output_units_per_query"`

	// CacheHitRatio is the fraction of input served at the cached rate
	CacheHitRatio float64 `json:"cache_hit_ratio" yaml:"cache_hit_ratio"`
}

// Validate rejects negative and non-finite figures and ratios outside [0,1]
func (p UsageProfile) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"queries_per_day", p.QueriesPerDay},
		{"input_units_per_query", p.InputUnitsPerQuery},
		{"output_units_per_query", p.OutputUnitsPerQuery},
		{"cache_hit_ratio", p.CacheHitRatio},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return errors.InvalidProfile("%s must be finite, got %v", f.name, f.value)
		}
		if f.value < 0 {
			return errors.InvalidProfile("%s must be >= 0, got %v", f.name, f.value)
		}
	}
	if p.CacheHitRatio > 1 {
		return errors.InvalidProfile("cache_hit_ratio must be <= 1, got %v", p.CacheHitRatio)
	}
	return nil
}

// QueriesPerMonth is QueriesPerDay over a 30-day month.
// The profile must be valid.
func (p UsageProfile) QueriesPerMonth() decimal.Decimal {
	return decimal.NewFromFloat(p.QueriesPerDay).Mul(daysPerMonth)
}

// InputUnitsPerMonth is the total monthly input volume
func (p UsageProfile) InputUnitsPerMonth() decimal.Decimal {
	return p.QueriesPerMonth().Mul(decimal.NewFromFloat(p.InputUnitsPerQuery)).Round(UnitPlaces)
}

// OutputUnitsPerMonth is the total monthly output volume
func (p UsageProfile) OutputUnitsPerMonth() decimal.Decimal {
	return p.QueriesPerMonth().Mul(decimal.NewFromFloat(p.OutputUnitsPerQuery)).Round(UnitPlaces)
}
