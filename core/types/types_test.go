package types

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag-cost/internal/errors"
)

func TestUsageProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile UsageProfile
		wantErr bool
	}{
		{"zero profile", UsageProfile{}, false},
		{"typical rag", UsageProfile{QueriesPerDay: 100, InputUnitsPerQuery: 15000, OutputUnitsPerQuery: 700, CacheHitRatio: 0.2}, false},
		{"full cache", UsageProfile{QueriesPerDay: 1, CacheHitRatio: 1}, false},
		{"negative queries", UsageProfile{QueriesPerDay: -1}, true},
		{"negative input", UsageProfile{InputUnitsPerQuery: -0.5}, true},
		{"negative output", UsageProfile{OutputUnitsPerQuery: -2}, true},
		{"nan", UsageProfile{QueriesPerDay: math.NaN()}, true},
		{"inf", UsageProfile{InputUnitsPerQuery: math.Inf(1)}, true},
		{"ratio above one", UsageProfile{CacheHitRatio: 1.01}, true},
		{"negative ratio", UsageProfile{CacheHitRatio: -0.1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.TypeInvalidProfile), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUsageProfileMonthlyUnits(t *testing.T) {
	p := UsageProfile{QueriesPerDay: 100, InputUnitsPerQuery: 15000, OutputUnitsPerQuery: 700}

	assert.True(t, p.QueriesPerMonth().Equal(decimal.NewFromInt(3000)))
	assert.True(t, p.InputUnitsPerMonth().Equal(decimal.NewFromInt(45_000_000)))
	assert.True(t, p.OutputUnitsPerMonth().Equal(decimal.NewFromInt(2_100_000)))
}

func TestKindDefaultUnitScale(t *testing.T) {
	assert.Equal(t, "1000000", KindLLM.DefaultUnitScale().String())
	assert.Equal(t, "1", KindCompute.DefaultUnitScale().String())
	assert.Equal(t, "30", KindStorage.DefaultUnitScale().String())
	assert.Equal(t, "360000000", KindVector.DefaultUnitScale().String())

	assert.True(t, KindVector.Valid())
	assert.False(t, Kind("gpu").Valid())
}

func TestPriceEntryValidate(t *testing.T) {
	valid := PriceEntry{
		ID:        "gpt-4.1",
		Kind:      KindLLM,
		Rates:     Rates{Input: Rate(2), CachedInput: Rate(0.5), Output: Rate(8)},
		UnitScale: KindLLM.DefaultUnitScale(),
	}
	require.NoError(t, valid.Validate())

	noCache := valid
	noCache.Rates.CachedInput = NoRate
	require.NoError(t, noCache.Validate())
	assert.False(t, noCache.Rates.HasCache())

	zeroPrice := valid
	zeroPrice.Rates = Rates{Input: Rate(0)}
	require.NoError(t, zeroPrice.Validate(), "a zero rate is a price, not a missing one")

	for name, broken := range map[string]PriceEntry{
		"no rates":      {ID: "empty", UnitScale: decimal.NewFromInt(1)},
		"zero scale":    {ID: "scale", Rates: Rates{Input: Rate(1)}},
		"negative rate": {ID: "neg", Rates: Rates{Output: Rate(-1)}, UnitScale: decimal.NewFromInt(1)},
	} {
		t.Run(name, func(t *testing.T) {
			err := broken.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeInvalidPriceEntry))
		})
	}
}

func TestBreakdownHelpers(t *testing.T) {
	b := CostBreakdown{
		PrimaryCost:   decimal.NewFromInt(45),
		SecondaryCost: decimal.RequireFromString("11.25"),
		TotalCost:     decimal.RequireFromString("73.05"),
	}

	assert.Equal(t, "56.25", b.InputCost().String())
	assert.Equal(t, "876.6", b.Annual().String())
}
