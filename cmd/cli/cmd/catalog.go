// Package cmd - catalog commands
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rag-cost/core/catalog"
	"rag-cost/core/output"
	"rag-cost/core/types"
	"rag-cost/core/ui"
	"rag-cost/internal/errors"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect, validate and export price catalogs",
	}
	cmd.AddCommand(
		newCatalogListCmd(a),
		newCatalogValidateCmd(a),
		newCatalogSchemaCmd(),
		newCatalogExportCmd(a),
	)
	return cmd
}

func newCatalogListCmd(a *app) *cobra.Command {
	var (
		provider string
		kind     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries and their rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, source, err := a.loadCatalog()
			if err != nil {
				return err
			}

			w := a.writer(cmd)
			w.Header(fmt.Sprintf("Catalog: %s", source))

			table := w.NewTable("Provider", "ID", "Name", "Kind", "Region", "Input", "Cached", "Output", "Per")
			var listed []types.PriceEntry
			for _, col := range []int{5, 6, 7} {
				table.SetAlign(col, ui.AlignRight)
			}
			for _, e := range c.Entries() {
				if provider != "" && !strings.EqualFold(provider, e.Provider) {
					continue
				}
				if kind != "" && types.Kind(kind) != e.Kind {
					continue
				}
				if e.Description != "" {
					listed = append(listed, e)
				}
				table.AddRow(e.Provider, e.ID, e.DisplayName, string(e.Kind), e.Region,
					output.MaybeUnitPrice(e.Rates.Input),
					output.MaybeUnitPrice(e.Rates.CachedInput),
					output.MaybeUnitPrice(e.Rates.Output),
					rateUnit(e))
			}
			table.Render()
			for _, e := range listed {
				w.Dim("%s/%s: %s", e.Provider, e.ID, e.Description)
			}

			stats := c.Stats()
			w.Println("")
			w.Info("%d of %d entries in %d groups, %d with cached input pricing",
				table.Len(), stats.Total, stats.Groups, stats.WithCache)
			return nil
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "only list this group")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "only list this kind")
	return cmd
}

// rateUnit describes what a rate is quoted per
func rateUnit(e types.PriceEntry) string {
	if e.UnitScale.Equal(e.Kind.DefaultUnitScale()) {
		switch e.Kind {
		case types.KindLLM:
			return "1M tokens"
		case types.KindCompute:
			return "hour"
		case types.KindStorage:
			return "GB-month"
		case types.KindVector:
			return "1M DSU-year"
		}
	}
	return fmt.Sprintf("%s %s", output.Quantity(e.UnitScale), e.Kind.UnitLabel())
}

func newCatalogValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a catalog file and report every problem",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Catalog.Path
			if len(args) > 0 {
				path = args[0]
			}

			w := ui.NewWriter(cmd.OutOrStdout(), !a.cfg.Output.Color)

			var (
				c   *catalog.Catalog
				err error
			)
			if path == "" {
				path = "builtin"
				c, err = catalog.Builtin()
			} else {
				c, err = catalog.LoadFile(path)
			}
			if err != nil {
				problems := catalog.Problems(err)
				if len(problems) == 0 {
					w.Error("%s: %v", path, err)
					return err
				}
				for _, p := range problems {
					w.Error("%v", p)
				}
				return errors.Newf(errors.TypeInvalidCatalog, "%s has %d problems", path, len(problems))
			}

			w.Success("%s: %d entries in %d groups are valid", path, c.Len(), len(c.Groups()))
			return nil
		},
	}
}

func newCatalogSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the catalog file format",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := catalog.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func newCatalogExportCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the active catalog as a JSON, YAML or TOML catalog file",
		Long: `Write the active catalog in a file format that --catalog accepts.
Use it to start a custom catalog from the built-in prices.

Examples:
  rag-cost catalog export --as yaml > prices.yaml
  rag-cost catalog export --as toml --catalog prices.yaml > prices.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.loadCatalog()
			if err != nil {
				return err
			}
			data, err := catalog.Encode(catalog.Format(format), catalog.Export(c))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "as", "yaml", "file format (json, yaml, toml)")
	return cmd
}
