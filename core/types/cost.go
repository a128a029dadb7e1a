// Package types - Cost breakdown types
package types

import "github.com/shopspring/decimal"

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// CacheStatus explains how cached input pricing was treated
type CacheStatus string

const (
	// CacheApplied means input was split between fresh and cached rates
	CacheApplied CacheStatus = "applied"

	// CacheDisabled means the profile's cache hit ratio is zero
	CacheDisabled CacheStatus = "disabled"

	// CacheUnavailable means the entry has no cached input rate
	CacheUnavailable CacheStatus = "unavailable"
)

// CostBreakdown is the monthly cost of one profile against one entry.
// It is computed fresh on every call and never persisted.
type CostBreakdown struct {
	// EntryID identifies the priced entry
	EntryID string `json:"entry_id"`

	// QueriesPerMonth is QueriesPerDay x 30
	QueriesPerMonth decimal.Decimal `json:"queries_per_month"`

	// InputUnits is the total monthly input volume
	InputUnits decimal.Decimal `json:"input_units"`

	// FreshInputUnits is the input billed at the primary rate
	FreshInputUnits decimal.Decimal `json:"fresh_input_units"`

	// CachedInputUnits is the input billed at the cached rate
	CachedInputUnits decimal.Decimal `json:"cached_input_units"`

	// OutputUnits is the total monthly output volume
	OutputUnits decimal.Decimal `json:"output_units"`

	// PrimaryCost is the fresh input cost
	PrimaryCost decimal.Decimal `json:"primary_cost"`

	// SecondaryCost is the cached input cost
	SecondaryCost decimal.Decimal `json:"secondary_cost"`

	// OutputCost is the output cost
	OutputCost decimal.Decimal `json:"output_cost"`

	// TotalCost is PrimaryCost + SecondaryCost + OutputCost
	TotalCost decimal.Decimal `json:"total_cost"`

	// AnnualCost is twelve months priced in one step, so monthly figures
	// that do not terminate, such as a yearly rate over 12, stay exact
	AnnualCost decimal.Decimal `json:"annual_cost"`

	// CostPerQuery is TotalCost / QueriesPerMonth; not Valid when there are no queries
	CostPerQuery decimal.NullDecimal `json:"cost_per_query"`

	// Cache records how cached pricing was treated
	Cache CacheStatus `json:"cache"`

	// Currency is the cost currency
	Currency Currency `json:"currency"`
}

// InputCost is the combined fresh and cached input cost
func (b CostBreakdown) InputCost() decimal.Decimal {
	return b.PrimaryCost.Add(b.SecondaryCost)
}

// MonthsPerYear is the number of billing months in a year
const MonthsPerYear = 12

// Annual is the total cost over twelve billing months.
// Breakdowns assembled without AnnualCost fall back to TotalCost x 12.
func (b CostBreakdown) Annual() decimal.Decimal {
	if b.AnnualCost.IsZero() {
		return b.TotalCost.Mul(decimal.NewFromInt(MonthsPerYear))
	}
	return b.AnnualCost
}
