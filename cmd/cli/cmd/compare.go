// Package cmd - compare command
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"rag-cost/core/diff"
	"rag-cost/core/estimator"
	"rag-cost/core/output"
	"rag-cost/core/ui"
	"rag-cost/internal/errors"
)

func newCompareCmd(a *app) *cobra.Command {
	var (
		group        string
		id           string
		againstGroup string
		againstID    string
		againstCache float64
		profile      profileFlags
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the cost of two entries, or one entry at two cache ratios",
		Long: `Estimate the same usage profile twice and show what changes.

The baseline is --group/--id. The alternative is --against-group/--against-id,
which default to the baseline, and --against-cache, which defaults to --cache.

Examples:
  rag-cost compare --group OpenAI --id gpt-4.1 --against-id gpt-4.1-mini
  rag-cost compare --group OpenAI --id gpt-4.1 --against-cache 0.5
  rag-cost compare -g OpenAI --id gpt-4o --against-group Anthropic --against-id claude-3.5-haiku`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if group == "" || id == "" {
				return errors.Input("--group and --id are required")
			}
			if againstGroup == "" {
				againstGroup = group
			}
			if againstID == "" {
				againstID = id
			}

			c, _, err := a.loadCatalog()
			if err != nil {
				return err
			}
			base, err := c.Lookup(group, id)
			if err != nil {
				return err
			}
			alt, err := c.Lookup(againstGroup, againstID)
			if err != nil {
				return err
			}

			p, err := profile.profile(cmd, a.cfg.Defaults)
			if err != nil {
				return err
			}
			altProfile := p
			if cmd.Flags().Changed("against-cache") {
				altProfile.CacheHitRatio = againstCache
				if err := altProfile.Validate(); err != nil {
					return err
				}
			}
			if base.Key() == alt.Key() && altProfile == p {
				return errors.Input("nothing to compare: pass a different entry or --against-cache")
			}

			est := estimator.New(a.logger)
			before, err := est.Estimate(p, base)
			if err != nil {
				return err
			}
			after, err := est.Estimate(altProfile, alt)
			if err != nil {
				return err
			}
			result := diff.Compare(before, after)

			if output.Format(a.cfg.Output.DefaultFormat) == output.FormatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			w := a.writer(cmd)
			w.Header(fmt.Sprintf("%s vs %s", label(base.DisplayName, p.CacheHitRatio), label(alt.DisplayName, altProfile.CacheHitRatio)))
			w.Dim("before: %s input, %s output units per month", output.Quantity(before.InputUnits), output.Quantity(before.OutputUnits))
			w.Dim("after:  %s input, %s output units per month", output.Quantity(after.InputUnits), output.Quantity(after.OutputUnits))

			table := w.NewTable("Component", "Before", "After", "Change")
			for col := 1; col <= 3; col++ {
				table.SetAlign(col, ui.AlignRight)
			}
			for _, comp := range result.Components {
				table.AddRow(comp.Name, output.Money(comp.Before), output.Money(comp.After), output.SignedMoney(comp.Delta))
			}
			table.AddRow("total", output.Money(result.TotalBefore), output.Money(result.TotalAfter), output.SignedMoney(result.TotalDelta))
			table.Render()

			w.Println("")
			switch result.ChangeType {
			case diff.ChangeDecrease:
				w.Success("%s saves %s/month (%s)", alt.DisplayName, output.Money(result.TotalDelta.Neg()), percent(result))
			case diff.ChangeIncrease:
				w.Warning("%s costs %s/month more (%s)", alt.DisplayName, output.Money(result.TotalDelta), percent(result))
			default:
				w.Info("No change in monthly cost")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "baseline catalog group")
	cmd.Flags().StringVar(&id, "id", "", "baseline entry id")
	cmd.Flags().StringVar(&againstGroup, "against-group", "", "alternative catalog group (default: --group)")
	cmd.Flags().StringVar(&againstID, "against-id", "", "alternative entry id (default: --id)")
	cmd.Flags().Float64Var(&againstCache, "against-cache", 0, "cache hit ratio for the alternative (default: --cache)")
	profile.register(cmd)
	return cmd
}

func label(name string, cache float64) string {
	if cache == 0 {
		return name
	}
	return fmt.Sprintf("%s @ %.0f%% cache", name, cache*100)
}

func percent(r diff.Result) string {
	if !r.DeltaPercent.Valid {
		return output.NotAvailable
	}
	return r.DeltaPercent.Decimal.Abs().StringFixed(1) + "%"
}
