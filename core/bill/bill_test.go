package bill

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rag-cost/core/catalog"
	"rag-cost/core/types"
	"rag-cost/internal/errors"
)

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestStarterBillMatchesRegionalTotals(t *testing.T) {
	tests := []struct {
		region     string
		gpu        string
		cpu        string
		storage    string
		opensearch string
		total      string
	}{
		{"eu-west-1", "70702.398", "57.816", "265.5", "552.61", "71578.324"},
		{"eu-west-2", "70702.398", "57.816", "278.5", "581.08", "71619.794"},
	}

	c := catalog.MustBuiltin()
	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			lines, err := Starter(c, tt.region)
			require.NoError(t, err)
			require.Len(t, lines, 12)

			b, err := Price(c, lines, zap.NewNop())
			require.NoError(t, err)

			for group, want := range map[string]string{
				"EC2-GPU": tt.gpu, "EC2-CPU": tt.cpu, "S3": tt.storage, "OpenSearch": tt.opensearch,
			} {
				sub, ok := b.Group(group)
				require.True(t, ok, group)
				requireDecimal(t, want, sub.Total)
			}
			requireDecimal(t, tt.total, b.Total)
			requireDecimal(t, decimal.RequireFromString(tt.total).Mul(decimal.NewFromInt(12)).String(), b.Annual)
		})
	}
}

func TestSubtotalsFollowCatalogOrder(t *testing.T) {
	c := catalog.MustBuiltin()
	lines, err := Starter(c, "EU-WEST-1")
	require.NoError(t, err)

	b, err := Price(c, lines, zap.NewNop())
	require.NoError(t, err)

	var groups []string
	for _, g := range b.Groups {
		groups = append(groups, g.Name)
	}
	assert.Equal(t, []string{"EC2-GPU", "EC2-CPU", "S3", "OpenSearch"}, groups)

	require.Len(t, b.Kinds, 2)
	compute, ok := b.Kind(types.KindCompute)
	require.True(t, ok)
	assert.Equal(t, 8, compute.Items)
	requireDecimal(t, "71312.824", compute.Total)

	storage, ok := b.Kind(types.KindStorage)
	require.True(t, ok)
	assert.Equal(t, 4, storage.Items)
}

func TestPriceMixedLines(t *testing.T) {
	b, err := Price(catalog.MustBuiltin(), []Line{
		{Group: "EC2-GPU", ID: "p5.48xlarge.eu-west-1", Quantity: 2},
		{Group: "S3", ID: "standard.eu-west-1", Quantity: 100},
		{Group: "DSU", ID: "dsu-768", Quantity: 1000},
	}, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, b.Items, 3)
	requireDecimal(t, "93556.8", b.Items[0].Breakdown.TotalCost)
	requireDecimal(t, "2.3", b.Items[1].Breakdown.TotalCost)
	requireDecimal(t, "4", b.Items[2].Breakdown.Annual())
	assert.Len(t, b.Kinds, 3)
}

func TestPriceEmptyBill(t *testing.T) {
	b, err := Price(catalog.MustBuiltin(), nil, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, b.Total.IsZero())
	assert.Empty(t, b.Groups)
	assert.NotNil(t, b.Groups)
}

func TestPriceRejectsBadLines(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
		want  errors.Type
	}{
		{"unknown entry", []Line{{Group: "EC2-GPU", ID: "p9"}}, errors.TypeNotFound},
		{"llm line", []Line{{Group: "OpenAI", ID: "gpt-4.1", Quantity: 1}}, errors.TypeInput},
		{"fractional instances", []Line{{Group: "EC2-CPU", ID: "t3.micro.eu-west-1", Quantity: 1.5}}, errors.TypeInvalidProfile},
		{"negative storage", []Line{{Group: "S3", ID: "standard.eu-west-1", Quantity: -1}}, errors.TypeInvalidProfile},
		{"billed twice", []Line{
			{Group: "S3", ID: "standard.eu-west-1", Quantity: 1},
			{Group: "s3", ID: "standard.eu-west-1", Quantity: 2},
		}, errors.TypeInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Price(catalog.MustBuiltin(), tt.lines, zap.NewNop())
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.want), "got %v", err)
		})
	}
}

func TestStarterUnknownRegion(t *testing.T) {
	_, err := Starter(catalog.MustBuiltin(), "us-east-1")
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}
