package diff

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag-cost/core/catalog"
	"rag-cost/core/estimator"
	"rag-cost/core/types"
)

func estimate(t *testing.T, group, id string, cache float64) types.CostBreakdown {
	t.Helper()
	entry, err := catalog.MustBuiltin().Lookup(group, id)
	require.NoError(t, err)
	b, err := estimator.Estimate(types.UsageProfile{
		QueriesPerDay: 100, InputUnitsPerQuery: 15000, OutputUnitsPerQuery: 700, CacheHitRatio: cache,
	}, entry)
	require.NoError(t, err)
	return b
}

func TestCompareCachingSavings(t *testing.T) {
	r := Compare(estimate(t, "OpenAI", "gpt-4.1", 0), estimate(t, "OpenAI", "gpt-4.1", 0.5))

	assert.Equal(t, ChangeDecrease, r.ChangeType)
	assert.True(t, decimal.RequireFromString("-33.75").Equal(r.TotalDelta), "got %s", r.TotalDelta)
	require.True(t, r.DeltaPercent.Valid)
	assert.Equal(t, "-31.60", r.DeltaPercent.Decimal.StringFixed(2))

	changed := r.Changed()
	require.Len(t, changed, 2)
	assert.Equal(t, ComponentInput, changed[0].Name)
	assert.Equal(t, ChangeDecrease, changed[0].ChangeType)
	assert.Equal(t, ComponentCachedInput, changed[1].Name)
	assert.Equal(t, ChangeIncrease, changed[1].ChangeType)
	assert.True(t, decimal.RequireFromString("11.25").Equal(changed[1].Delta))
}

func TestCompareAcrossEntries(t *testing.T) {
	r := Compare(estimate(t, "OpenAI", "gpt-4.1-nano", 0), estimate(t, "OpenAI", "gpt-4.1", 0))

	assert.Equal(t, "gpt-4.1-nano", r.Before)
	assert.Equal(t, "gpt-4.1", r.After)
	assert.Equal(t, ChangeIncrease, r.ChangeType)
	assert.True(t, decimal.RequireFromString("101.46").Equal(r.TotalDelta))
	assert.Equal(t, "increase", r.ChangeType.String())
}

func TestCompareIdentical(t *testing.T) {
	b := estimate(t, "Google", "gemini-2.0-flash", 0.2)
	r := Compare(b, b)

	assert.Equal(t, ChangeUnchanged, r.ChangeType)
	assert.Empty(t, r.Changed())
	assert.True(t, r.DeltaPercent.Decimal.IsZero())
}

func TestComparePercentUndefinedFromZero(t *testing.T) {
	zero := types.CostBreakdown{EntryID: "free"}
	r := Compare(zero, estimate(t, "OpenAI", "gpt-4.1", 0))

	assert.False(t, r.DeltaPercent.Valid)
	assert.Equal(t, ChangeIncrease, r.ChangeType)
}
