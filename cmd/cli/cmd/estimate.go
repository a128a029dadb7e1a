// Package cmd - estimate command
package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"rag-cost/core/estimator"
	"rag-cost/core/output"
	"rag-cost/core/ranking"
	"rag-cost/internal/errors"
)

func newEstimateCmd(a *app) *cobra.Command {
	var (
		group   string
		id      string
		profile profileFlags
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the monthly cost of one catalog entry",
		Long: `Price a usage profile against a single catalog entry.

Examples:
  rag-cost estimate --group OpenAI --id gpt-4.1
  rag-cost estimate --group Anthropic --id claude-3.7-sonnet --queries 2500 --cache 0.3
  rag-cost estimate --group EC2-GPU --id p5.48xlarge.eu-west-1 --instances 2
  rag-cost estimate --group S3 --id standard-ia.eu-west-2 --gb 5000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if group == "" || id == "" {
				return errors.Input("--group and --id are required")
			}

			c, source, err := a.loadCatalog()
			if err != nil {
				return err
			}
			entry, err := c.Lookup(group, id)
			if err != nil {
				return err
			}
			p, err := profile.profile(cmd, a.cfg.Defaults)
			if err != nil {
				return err
			}

			breakdown, err := estimator.New(a.logger).Estimate(p, entry)
			if err != nil {
				return err
			}

			f, err := a.formatter()
			if err != nil {
				return err
			}
			return f.Render(cmd.OutOrStdout(), &output.Report{
				Title:   entry.DisplayName,
				Profile: p,
				Results: []ranking.Result{{Entry: entry, Breakdown: breakdown}},
				Metadata: output.Metadata{
					Timestamp: time.Now().UTC().Format(time.RFC3339),
					Version:   Version,
					Catalog:   source,
					Filter:    ranking.Filter{Provider: entry.Provider},
				},
			})
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "catalog group, e.g. OpenAI")
	cmd.Flags().StringVar(&id, "id", "", "entry id within the group, e.g. gpt-4.1")
	profile.register(cmd)
	return cmd
}
