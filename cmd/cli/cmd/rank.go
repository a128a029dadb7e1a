// Package cmd - rank command
package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"rag-cost/core/output"
	"rag-cost/core/ranking"
	"rag-cost/core/types"
	"rag-cost/internal/errors"
)

func newRankCmd(a *app) *cobra.Command {
	var (
		filter  ranking.Filter
		kind    string
		top     int
		profile profileFlags
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank catalog entries by monthly cost",
		Long: `Price a usage profile against every matching catalog entry, cheapest first.

--where takes a CEL expression over entry.id, entry.name, entry.provider,
entry.region, entry.kind, entry.has_cache, entry.input_price,
entry.cached_input_price, entry.output_price, cost.total, cost.input and
cost.output. Missing prices are null.

Examples:
  rag-cost rank --provider OpenAI --top 5
  rag-cost rank --kind compute --region eu-west-2 --instances 1
  rag-cost rank --kind storage --region eu-west-1 --gb 1000
  rag-cost rank --kind llm --where "entry.has_cache && cost.total < 50.0"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if top < 0 {
				return errors.Input("--top must be >= 0")
			}
			filter.Kind = types.Kind(kind)

			c, source, err := a.loadCatalog()
			if err != nil {
				return err
			}
			p, err := profile.profile(cmd, a.cfg.Defaults)
			if err != nil {
				return err
			}
			q, err := ranking.Compile(filter, a.logger)
			if err != nil {
				return err
			}
			results, err := q.Rank(c, p)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("top") {
				top = a.cfg.Output.Top
			}

			f, err := a.formatter()
			if err != nil {
				return err
			}
			return f.Render(cmd.OutOrStdout(), &output.Report{
				Title:   "Cost ranking",
				Profile: p,
				Results: ranking.Top(results, top),
				Metadata: output.Metadata{
					Timestamp: time.Now().UTC().Format(time.RFC3339),
					Version:   Version,
					Catalog:   source,
					Filter:    filter,
				},
			})
		},
	}

	cmd.Flags().StringVarP(&filter.Provider, "provider", "p", "", "catalog group to include (default all)")
	cmd.Flags().StringVarP(&filter.Region, "region", "r", "", "region to include (default all)")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "kind to include: llm, compute, storage, vector (default all)")
	cmd.Flags().StringVarP(&filter.Where, "where", "w", "", "CEL filter expression")
	cmd.Flags().IntVarP(&top, "top", "n", 0, "show only the N cheapest entries")
	profile.register(cmd)
	return cmd
}
