// Package output - Display rows
package output

import (
	"rag-cost/core/diff"
	"rag-cost/core/ranking"
)

// Row is one ranked result with every amount rounded for display
type Row struct {
	Rank         int    `json:"rank"`
	Provider     string `json:"provider"`
	ID           string `json:"id"`
	Name         string `json:"name"`
	Region       string `json:"region,omitempty"`
	Kind         string `json:"kind"`
	InputUnits   string `json:"input_units"`
	OutputUnits  string `json:"output_units"`
	InputCost    string `json:"input_cost"`
	CachedCost   string `json:"cached_input_cost"`
	OutputCost   string `json:"output_cost"`
	MonthlyCost  string `json:"monthly_cost"`
	AnnualCost   string `json:"annual_cost"`
	CostPerQuery string `json:"cost_per_query"`
	Cache        string `json:"cache"`
	VsCheapest   string `json:"vs_cheapest"`
}

// Rows converts results to display rows, numbered from 1.
// VsCheapest is measured against the first result.
func Rows(results []ranking.Result) []Row {
	rows := make([]Row, len(results))
	for i, r := range results {
		b := r.Breakdown
		vs := diff.Compare(results[0].Breakdown, b)
		rows[i] = Row{
			Rank:         i + 1,
			Provider:     r.Entry.Provider,
			ID:           r.Entry.ID,
			Name:         r.Entry.DisplayName,
			Region:       r.Entry.Region,
			Kind:         string(r.Entry.Kind),
			InputUnits:   Quantity(b.InputUnits),
			OutputUnits:  Quantity(b.OutputUnits),
			InputCost:    Money(b.PrimaryCost),
			CachedCost:   Money(b.SecondaryCost),
			OutputCost:   Money(b.OutputCost),
			MonthlyCost:  Money(b.TotalCost),
			AnnualCost:   Money(b.Annual()),
			CostPerQuery: MaybeUnitPrice(b.CostPerQuery),
			Cache:        string(b.Cache),
			VsCheapest:   SignedMoney(vs.TotalDelta),
		}
	}
	return rows
}
