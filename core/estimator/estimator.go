// Package estimator computes monthly cost breakdowns.
// Estimate is pure: the same profile and entry always produce the same breakdown.
package estimator

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rag-cost/core/types"
	"rag-cost/internal/logging"
)

// Estimate prices profile against entry.
// It fails with INVALID_PROFILE or INVALID_PRICE_ENTRY instead of computing
// from bad numbers.
func Estimate(profile types.UsageProfile, entry types.PriceEntry) (types.CostBreakdown, error) {
	if err := profile.Validate(); err != nil {
		return types.CostBreakdown{}, err
	}
	if err := entry.Validate(); err != nil {
		return types.CostBreakdown{}, err
	}

	queries := profile.QueriesPerMonth()
	input := profile.InputUnitsPerMonth()
	output := profile.OutputUnitsPerMonth()

	fresh, cached := input, decimal.Zero
	status := CacheStatus(profile, entry)
	if status == types.CacheApplied {
		cached = input.Mul(decimal.NewFromFloat(profile.CacheHitRatio))
		fresh = input.Sub(cached)
	}

	primary := scaled(fresh, entry.Rates.Input, entry.UnitScale)
	secondary := scaled(cached, entry.Rates.CachedInput, entry.UnitScale)
	outputCost := scaled(output, entry.Rates.Output, entry.UnitScale)
	total := primary.Add(secondary).Add(outputCost)

	year := decimal.NewFromInt(types.MonthsPerYear)
	annual := scaled(fresh.Mul(year), entry.Rates.Input, entry.UnitScale).
		Add(scaled(cached.Mul(year), entry.Rates.CachedInput, entry.UnitScale)).
		Add(scaled(output.Mul(year), entry.Rates.Output, entry.UnitScale))

	var perQuery decimal.NullDecimal
	if queries.IsPositive() {
		perQuery = decimal.NewNullDecimal(total.Div(queries))
	}

	return types.CostBreakdown{
		EntryID:          entry.ID,
		QueriesPerMonth:  queries,
		InputUnits:       input,
		FreshInputUnits:  fresh,
		CachedInputUnits: cached,
		OutputUnits:      output,
		PrimaryCost:      primary,
		SecondaryCost:    secondary,
		OutputCost:       outputCost,
		TotalCost:        total,
		AnnualCost:       annual,
		CostPerQuery:     perQuery,
		Cache:            status,
		Currency:         types.CurrencyUSD,
	}, nil
}

// CacheStatus reports how cached input pricing applies.
// An entry without a cached rate is unavailable whatever the ratio.
func CacheStatus(profile types.UsageProfile, entry types.PriceEntry) types.CacheStatus {
	switch {
	case !entry.Rates.HasCache():
		return types.CacheUnavailable
	case profile.CacheHitRatio <= 0:
		return types.CacheDisabled
	default:
		return types.CacheApplied
	}
}

// scaled is units / scale x rate. A missing rate contributes exactly zero.
func scaled(units decimal.Decimal, rate decimal.NullDecimal, scale decimal.Decimal) decimal.Decimal {
	if !rate.Valid || units.IsZero() {
		return decimal.Zero
	}
	return units.Mul(rate.Decimal).Div(scale)
}

// Estimator wraps Estimate with logging for callers that want a trail of
// rejected inputs.
type Estimator struct {
	logger *zap.Logger
}

// New creates an estimator. A nil logger uses the global one.
func New(logger *zap.Logger) *Estimator {
	return &Estimator{logger: logging.OrGlobal(logger).Named("estimator")}
}

// Estimate prices profile against entry
func (e *Estimator) Estimate(profile types.UsageProfile, entry types.PriceEntry) (types.CostBreakdown, error) {
	b, err := Estimate(profile, entry)
	if err != nil {
		e.logger.Debug("estimate rejected",
			zap.String("entry", entry.Key()),
			zap.Error(err),
		)
		return b, err
	}
	if b.Cache == types.CacheUnavailable && profile.CacheHitRatio > 0 {
		e.logger.Debug("cache hit ratio ignored: entry has no cached input rate",
			zap.String("entry", entry.Key()),
			zap.Float64("cache_hit_ratio", profile.CacheHitRatio),
		)
	}
	return b, nil
}
