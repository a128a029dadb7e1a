// Package output - Table formatter
package output

import (
	"fmt"
	"io"

	"rag-cost/core/ui"
)

// TableFormatter renders a report as an aligned terminal table
type TableFormatter struct {
	noColor bool
}

// NewTableFormatter creates a table formatter
func NewTableFormatter(noColor bool) *TableFormatter {
	return &TableFormatter{noColor: noColor}
}

// Format returns the format type
func (f *TableFormatter) Format() Format {
	return FormatTable
}

// Render produces output for the given report
func (f *TableFormatter) Render(w io.Writer, report *Report) error {
	out := ui.NewWriter(w, f.noColor)

	if report.Title != "" {
		out.Header(report.Title)
	}

	p := report.Profile
	out.Println("Queries/day: %s   Input/query: %s   Output/query: %s   Cache hit: %.0f%%",
		Quantity(decimalOf(p.QueriesPerDay)),
		Quantity(decimalOf(p.InputUnitsPerQuery)),
		Quantity(decimalOf(p.OutputUnitsPerQuery)),
		p.CacheHitRatio*100)
	if c := report.Corpus; c != nil {
		out.Println("Corpus: %d pages, %d chunks, %s DSU", c.Pages, c.Chunks, Quantity(c.DSU))
	}
	out.Println("")

	if len(report.Results) == 0 {
		out.Warning("no catalog entries match the filter")
		return nil
	}

	table := out.NewTable("#", "Provider", "Name", "Region", "Input", "Cached", "Output", "Monthly", "Per query", "Cache")
	for _, col := range []int{0, 4, 5, 6, 7, 8} {
		table.SetAlign(col, ui.AlignRight)
	}
	for _, row := range Rows(report.Results) {
		region := row.Region
		if region == "" {
			region = "-"
		}
		table.AddRow(
			fmt.Sprint(row.Rank), row.Provider, row.Name, region,
			row.InputCost, row.CachedCost, row.OutputCost, row.MonthlyCost, row.CostPerQuery, row.Cache,
		)
	}
	table.Render()
	out.Println("")

	cheapest := report.Results[0]
	out.Success("Cheapest: %s (%s) at %s/month, %s/year",
		cheapest.Entry.DisplayName, cheapest.Entry.Provider,
		Money(cheapest.Breakdown.TotalCost), Money(cheapest.Breakdown.Annual()))

	for _, a := range report.Assumptions {
		out.Info("assumed %s", a)
	}
	return nil
}
