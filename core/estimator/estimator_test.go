package estimator

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rag-cost/core/types"
	"rag-cost/internal/errors"
)

func gpt41() types.PriceEntry {
	return types.PriceEntry{
		ID:          "gpt-4.1",
		DisplayName: "GPT-4.1",
		Provider:    "OpenAI",
		Kind:        types.KindLLM,
		Rates: types.Rates{
			Input:       types.Rate(2.00),
			CachedInput: types.Rate(0.50),
			Output:      types.Rate(8.00),
		},
		UnitScale: decimal.NewFromInt(1_000_000),
	}
}

func ragProfile(cache float64) types.UsageProfile {
	return types.UsageProfile{
		QueriesPerDay:       100,
		InputUnitsPerQuery:  15000,
		OutputUnitsPerQuery: 700,
		CacheHitRatio:       cache,
	}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestEstimateWithoutCaching(t *testing.T) {
	b, err := Estimate(ragProfile(0), gpt41())
	require.NoError(t, err)

	requireDecimal(t, "3000", b.QueriesPerMonth)
	requireDecimal(t, "45000000", b.InputUnits)
	requireDecimal(t, "2100000", b.OutputUnits)
	requireDecimal(t, "90", b.PrimaryCost)
	requireDecimal(t, "0", b.SecondaryCost)
	requireDecimal(t, "16.8", b.OutputCost)
	requireDecimal(t, "106.8", b.TotalCost)
	requireDecimal(t, "0.0356", b.CostPerQuery.Decimal)
	assert.True(t, b.CostPerQuery.Valid)
	assert.Equal(t, types.CacheDisabled, b.Cache)
	assert.Equal(t, "gpt-4.1", b.EntryID)
}

func TestEstimateWithCaching(t *testing.T) {
	b, err := Estimate(ragProfile(0.5), gpt41())
	require.NoError(t, err)

	requireDecimal(t, "22500000", b.FreshInputUnits)
	requireDecimal(t, "22500000", b.CachedInputUnits)
	requireDecimal(t, "45", b.PrimaryCost)
	requireDecimal(t, "11.25", b.SecondaryCost)
	requireDecimal(t, "16.8", b.OutputCost)
	requireDecimal(t, "73.05", b.TotalCost)
	requireDecimal(t, "56.25", b.InputCost())
	assert.Equal(t, types.CacheApplied, b.Cache)
}

func TestEstimateNullCachedRateIgnoresRatio(t *testing.T) {
	entry := gpt41()
	entry.Rates.CachedInput = types.NoRate

	uncached, err := Estimate(ragProfile(0), entry)
	require.NoError(t, err)

	for _, ratio := range []float64{0, 0.2, 0.5, 1} {
		b, err := Estimate(ragProfile(ratio), entry)
		require.NoError(t, err)

		assert.True(t, b.SecondaryCost.IsZero(), "ratio %v", ratio)
		assert.True(t, b.CachedInputUnits.IsZero(), "ratio %v", ratio)
		requireDecimal(t, "106.8", b.TotalCost)
		assert.Equal(t, uncached, b)
		assert.Equal(t, types.CacheUnavailable, b.Cache)
	}
}

func TestEstimateZeroQueries(t *testing.T) {
	profile := ragProfile(0.5)
	profile.QueriesPerDay = 0

	b, err := Estimate(profile, gpt41())
	require.NoError(t, err)

	assert.True(t, b.TotalCost.IsZero())
	assert.False(t, b.CostPerQuery.Valid, "cost per query is undefined without queries")
}

func TestEstimateMissingRatesContributeZero(t *testing.T) {
	entry := types.PriceEntry{
		ID:        "t3.micro",
		Kind:      types.KindCompute,
		Rates:     types.Rates{Input: types.Rate(0.0104)},
		UnitScale: decimal.NewFromInt(1),
	}
	profile := types.UsageProfile{QueriesPerDay: 2, InputUnitsPerQuery: 24, OutputUnitsPerQuery: 99}

	b, err := Estimate(profile, entry)
	require.NoError(t, err)

	requireDecimal(t, "1440", b.InputUnits)
	requireDecimal(t, "14.976", b.TotalCost)
	assert.True(t, b.OutputCost.IsZero())
}

func TestEstimateRejectsInvalidProfile(t *testing.T) {
	for name, p := range map[string]types.UsageProfile{
		"negative queries": {QueriesPerDay: -1},
		"nan input":        {QueriesPerDay: 1, InputUnitsPerQuery: math.NaN()},
		"inf output":       {QueriesPerDay: 1, OutputUnitsPerQuery: math.Inf(1)},
		"ratio above one":  {QueriesPerDay: 1, CacheHitRatio: 2},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Estimate(p, gpt41())
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeInvalidProfile))
		})
	}
}

func TestEstimateRejectsInvalidEntry(t *testing.T) {
	noRates := gpt41()
	noRates.Rates = types.Rates{}

	zeroScale := gpt41()
	zeroScale.UnitScale = decimal.Zero

	negativeScale := gpt41()
	negativeScale.UnitScale = decimal.NewFromInt(-1)

	for name, entry := range map[string]types.PriceEntry{
		"no rates":       noRates,
		"zero scale":     zeroScale,
		"negative scale": negativeScale,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Estimate(ragProfile(0), entry)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeInvalidPriceEntry))
		})
	}
}

func TestEstimateTotalIsExactSum(t *testing.T) {
	entry := gpt41()
	entry.Rates.CachedInput = types.Rate(0.025)
	entry.Rates.Input = types.Rate(0.1)
	entry.Rates.Output = types.Rate(0.4)

	for _, ratio := range []float64{0, 0.1, 0.2, 1.0 / 3, 0.999} {
		p := types.UsageProfile{QueriesPerDay: 37, InputUnitsPerQuery: 1234, OutputUnitsPerQuery: 77, CacheHitRatio: ratio}
		b, err := Estimate(p, entry)
		require.NoError(t, err)

		sum := b.PrimaryCost.Add(b.SecondaryCost).Add(b.OutputCost)
		assert.True(t, sum.Equal(b.TotalCost), "ratio %v", ratio)
		assert.False(t, b.TotalCost.IsNegative())
		assert.False(t, b.PrimaryCost.IsNegative())
		assert.False(t, b.SecondaryCost.IsNegative())
		assert.False(t, b.OutputCost.IsNegative())
	}
}

func TestEstimateIsMonotonic(t *testing.T) {
	entry := gpt41()
	base := types.UsageProfile{QueriesPerDay: 10, InputUnitsPerQuery: 1000, OutputUnitsPerQuery: 100, CacheHitRatio: 0.3}

	bump := []func(p *types.UsageProfile, step float64){
		func(p *types.UsageProfile, s float64) { p.QueriesPerDay += s },
		func(p *types.UsageProfile, s float64) { p.InputUnitsPerQuery += s * 100 },
		func(p *types.UsageProfile, s float64) { p.OutputUnitsPerQuery += s * 10 },
	}

	for i, fn := range bump {
		prev, err := Estimate(base, entry)
		require.NoError(t, err)

		p := base
		for step := 0; step < 20; step++ {
			fn(&p, 1.5)
			next, err := Estimate(p, entry)
			require.NoError(t, err)
			assert.True(t, next.TotalCost.GreaterThanOrEqual(prev.TotalCost), "field %d step %d", i, step)
			prev = next
		}
	}
}

func TestEstimateIsIdempotent(t *testing.T) {
	first, err := Estimate(ragProfile(0.2), gpt41())
	require.NoError(t, err)
	second, err := Estimate(ragProfile(0.2), gpt41())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first.TotalCost.String(), second.TotalCost.String())
}

func TestCacheStatus(t *testing.T) {
	entry := gpt41()
	assert.Equal(t, types.CacheDisabled, CacheStatus(ragProfile(0), entry))
	assert.Equal(t, types.CacheApplied, CacheStatus(ragProfile(0.1), entry))

	entry.Rates.CachedInput = types.NoRate
	assert.Equal(t, types.CacheUnavailable, CacheStatus(ragProfile(0), entry))
	assert.Equal(t, types.CacheUnavailable, CacheStatus(ragProfile(0.1), entry))
}

func TestEstimatorLogsAndDelegates(t *testing.T) {
	e := New(zap.NewNop())

	b, err := e.Estimate(ragProfile(0.5), gpt41())
	require.NoError(t, err)
	requireDecimal(t, "73.05", b.TotalCost)

	_, err = e.Estimate(types.UsageProfile{QueriesPerDay: -5}, gpt41())
	assert.True(t, errors.IsType(err, errors.TypeInvalidProfile))
}
