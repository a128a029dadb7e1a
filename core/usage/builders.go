// Package usage - Usage profile builders
// Each builder maps a workload description onto the single per-day
// UsageProfile the estimator understands.
package usage

import (
	"math"

	"rag-cost/core/types"
	"rag-cost/internal/errors"
)

// HoursPerMonth is the billed runtime of an always-on instance, the
// average month of 8760/12 hours that AWS quotes monthly prices against
const HoursPerMonth = 730

// Tokens describes an LLM workload
func Tokens(queriesPerDay, inputTokens, outputTokens, cacheHitRatio float64) (types.UsageProfile, error) {
	p := types.UsageProfile{
		QueriesPerDay:       queriesPerDay,
		InputUnitsPerQuery:  inputTokens,
		OutputUnitsPerQuery: outputTokens,
		CacheHitRatio:       cacheHitRatio,
	}
	return p, p.Validate()
}

// InstanceHours describes instances each running hoursPerMonth.
// Pair it with a compute entry quoted per instance-hour.
func InstanceHours(instances int, hoursPerMonth float64) (types.UsageProfile, error) {
	if instances < 0 {
		return types.UsageProfile{}, errors.InvalidProfile("instances must be >= 0, got %d", instances)
	}
	if hoursPerMonth < 0 || hoursPerMonth > HoursPerMonth {
		return types.UsageProfile{}, errors.InvalidProfile("hours per month must be within [0, %d], got %v", HoursPerMonth, hoursPerMonth)
	}
	p := types.UsageProfile{
		QueriesPerDay:      float64(instances),
		InputUnitsPerQuery: hoursPerMonth / types.DaysPerMonth,
	}
	return p, p.Validate()
}

// AlwaysOn is InstanceHours for instances running around the clock
func AlwaysOn(instances int) (types.UsageProfile, error) {
	return InstanceHours(instances, HoursPerMonth)
}

// StorageGB describes gb stored for the whole month, measured in GB-days.
// Pair it with a storage entry quoted per GB-month.
func StorageGB(gb float64) (types.UsageProfile, error) {
	if gb < 0 {
		return types.UsageProfile{}, errors.InvalidProfile("storage must be >= 0 GB, got %v", gb)
	}
	p := types.UsageProfile{
		QueriesPerDay:      1,
		InputUnitsPerQuery: gb,
	}
	return p, p.Validate()
}

// StoredDSU describes dsu vector units kept for the whole month, in DSU-days.
// Pair it with a vector entry quoted per million DSU-year.
func StoredDSU(dsu float64) (types.UsageProfile, error) {
	if dsu < 0 {
		return types.UsageProfile{}, errors.InvalidProfile("dsu must be >= 0, got %v", dsu)
	}
	p := types.UsageProfile{
		QueriesPerDay:      1,
		InputUnitsPerQuery: dsu,
	}
	return p, p.Validate()
}

// ForKind maps a bill quantity onto the builder for kind: always-on
// instances for compute, GB for storage, DSU for vector units. LLM usage
// has no single quantity and is rejected.
func ForKind(kind types.Kind, quantity float64) (types.UsageProfile, error) {
	switch kind {
	case types.KindCompute:
		if quantity != math.Trunc(quantity) || quantity > math.MaxInt32 {
			return types.UsageProfile{}, errors.InvalidProfile("instance count must be a whole number, got %v", quantity)
		}
		return AlwaysOn(int(quantity))
	case types.KindStorage:
		return StorageGB(quantity)
	case types.KindVector:
		return StoredDSU(quantity)
	default:
		return types.UsageProfile{}, errors.Newf(errors.TypeInput, "%s entries are priced per token, use estimate or rank", kind)
	}
}
