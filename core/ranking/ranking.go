// Package ranking - Cost ranking across a catalog
package ranking

import (
	"cmp"
	"slices"
	"strings"

	"go.uber.org/zap"

	"rag-cost/core/catalog"
	"rag-cost/core/estimator"
	"rag-cost/core/types"
	"rag-cost/internal/logging"
)

// Result pairs an entry with its estimate
type Result struct {
	// Entry is the priced catalog row
	Entry types.PriceEntry `json:"entry"`

	// Breakdown is the monthly estimate for the entry
	Breakdown types.CostBreakdown `json:"breakdown"`
}

// Query is a compiled Filter. It is immutable and safe for concurrent use.
type Query struct {
	filter Filter
	where  *whereRule
	logger *zap.Logger
}

// Compile validates f and prepares its Where expression once
func Compile(f Filter, logger *zap.Logger) (*Query, error) {
	q := &Query{
		filter: f,
		logger: logging.OrGlobal(logger).Named("ranking"),
	}
	if strings.TrimSpace(f.Where) != "" {
		rule, err := compileWhere(f.Where)
		if err != nil {
			return nil, err
		}
		q.where = rule
	}
	return q, nil
}

// Filter returns the filter the query was compiled from
func (q *Query) Filter() Filter {
	return q.filter
}

// Rank prices every catalog entry that passes the filter
func (q *Query) Rank(c *catalog.Catalog, profile types.UsageProfile) ([]Result, error) {
	return q.RankEntries(c.Entries(), profile)
}

// RankEntries prices the given entries that pass the filter and sorts
// them by total cost, then display name, then key
func (q *Query) RankEntries(entries []types.PriceEntry, profile types.UsageProfile) ([]Result, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(entries))
	for _, entry := range entries {
		if !q.filter.Matches(entry) {
			continue
		}

		breakdown, err := estimator.Estimate(profile, entry)
		if err != nil {
			return nil, err
		}

		if q.where != nil {
			ok, err := q.where.eval(entry, breakdown)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}

		results = append(results, Result{Entry: entry, Breakdown: breakdown})
	}

	slices.SortStableFunc(results, compareResults)

	q.logger.Debug("ranked entries",
		zap.Int("candidates", len(entries)),
		zap.Int("matched", len(results)))

	return results, nil
}

func compareResults(a, b Result) int {
	if c := a.Breakdown.TotalCost.Cmp(b.Breakdown.TotalCost); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Entry.DisplayName, b.Entry.DisplayName); c != 0 {
		return c
	}
	return cmp.Compare(a.Entry.Key(), b.Entry.Key())
}

// Rank compiles f and ranks the catalog in one call
func Rank(c *catalog.Catalog, f Filter, profile types.UsageProfile) ([]Result, error) {
	q, err := Compile(f, nil)
	if err != nil {
		return nil, err
	}
	return q.Rank(c, profile)
}

// Cheapest returns the first result, if any
func Cheapest(results []Result) (Result, bool) {
	if len(results) == 0 {
		return Result{}, false
	}
	return results[0], true
}

// Top returns at most n leading results. n <= 0 returns all of them.
func Top(results []Result, n int) []Result {
	if n <= 0 || n >= len(results) {
		return results
	}
	return results[:n]
}
