// Package output - Markdown formatter
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// MarkdownFormatter renders a report as GitHub-flavored markdown
type MarkdownFormatter struct{}

// Format returns the format type
func (f *MarkdownFormatter) Format() Format {
	return FormatMarkdown
}

// Render produces output for the given report
func (f *MarkdownFormatter) Render(w io.Writer, report *Report) error {
	var b strings.Builder

	title := report.Title
	if title == "" {
		title = "Cost estimate"
	}
	fmt.Fprintf(&b, "## %s\n\n", title)

	p := report.Profile
	fmt.Fprintf(&b, "- Queries per day: %s\n", Quantity(decimalOf(p.QueriesPerDay)))
	fmt.Fprintf(&b, "- Input per query: %s\n", Quantity(decimalOf(p.InputUnitsPerQuery)))
	fmt.Fprintf(&b, "- Output per query: %s\n", Quantity(decimalOf(p.OutputUnitsPerQuery)))
	fmt.Fprintf(&b, "- Cache hit ratio: %.0f%%\n", p.CacheHitRatio*100)
	if c := report.Corpus; c != nil {
		fmt.Fprintf(&b, "- Corpus: %d pages, %d chunks, %s DSU\n", c.Pages, c.Chunks, Quantity(c.DSU))
	}
	b.WriteString("\n")

	if len(report.Results) == 0 {
		b.WriteString("_No catalog entries match the filter._\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString("| # | Provider | Name | Region | Input | Cached | Output | Monthly | Annual | Per query | vs cheapest |\n")
	b.WriteString("|--:|---|---|---|--:|--:|--:|--:|--:|--:|--:|\n")
	for _, row := range Rows(report.Results) {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | **%s** | %s | %s | %s |\n",
			row.Rank, escapeCell(row.Provider), escapeCell(row.Name), escapeCell(row.Region),
			row.InputCost, row.CachedCost, row.OutputCost, row.MonthlyCost, row.AnnualCost, row.CostPerQuery, row.VsCheapest)
	}

	if len(report.Assumptions) > 0 {
		b.WriteString("\n### Assumptions\n\n")
		for _, a := range report.Assumptions {
			fmt.Fprintf(&b, "- `%s` = %s\n", a.OverrideKey, strings.TrimSpace(fmt.Sprintf("%v %s", a.Value, a.Unit)))
		}
	}

	if m := report.Metadata; m.Catalog != "" || m.Timestamp != "" {
		fmt.Fprintf(&b, "\n_Catalog: %s. Generated %s._\n", m.Catalog, m.Timestamp)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func decimalOf(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
