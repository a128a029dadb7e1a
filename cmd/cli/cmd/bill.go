// Package cmd - bill command
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"rag-cost/core/bill"
	"rag-cost/core/output"
	"rag-cost/core/types"
	"rag-cost/core/ui"
	"rag-cost/internal/errors"
)

func newBillCmd(a *app) *cobra.Command {
	var (
		region   string
		lineArgs []string
		file     string
	)

	cmd := &cobra.Command{
		Use:   "bill",
		Short: "Price provisioned infrastructure as one monthly bill",
		Long: `Add up always-on instances, stored GB and vector units into a monthly bill
with subtotals per catalog group and per kind.

Quantities are instances for compute entries (billed 730 hours a month), GB for
storage and DSU for vector units. Without --line or --file the bill is the
starter footprint for --region: one of each GPU and search instance, two of
each CPU instance and 1,000/5,000/10,000/20,000 GB across the S3 tiers.

Examples:
  rag-cost bill --region eu-west-2
  rag-cost bill --line EC2-GPU/p5.48xlarge.eu-west-1=2 --line S3/standard.eu-west-1=500
  rag-cost bill --file infra.yaml --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, source, err := a.loadCatalog()
			if err != nil {
				return err
			}

			lines, err := parseLines(lineArgs)
			if err != nil {
				return err
			}
			if file != "" {
				fromFile, err := readLines(file)
				if err != nil {
					return err
				}
				lines = append(lines, fromFile...)
			}
			title := "Custom bill"
			if len(lines) == 0 {
				if lines, err = bill.Starter(c, region); err != nil {
					return err
				}
				title = fmt.Sprintf("Starter bill for %s", region)
			}

			b, err := bill.Price(c, lines, a.logger)
			if err != nil {
				return err
			}

			if output.Format(a.cfg.Output.DefaultFormat) == output.FormatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(b)
			}

			w := a.writer(cmd)
			w.Header(title)
			w.Dim("catalog: %s", source)

			items := w.NewTable("Group", "Name", "Region", "Quantity", "Monthly")
			items.SetAlign(3, ui.AlignRight)
			items.SetAlign(4, ui.AlignRight)
			for _, it := range b.Items {
				items.AddRow(it.Entry.Provider, it.Entry.DisplayName, it.Entry.Region,
					quantityLabel(it.Entry.Kind, it.Line.Quantity), output.Money(it.Breakdown.TotalCost))
			}
			items.Render()
			w.Println("")

			subtotals := w.NewTable("Subtotal", "Items", "Monthly", "Annual")
			for col := 1; col <= 3; col++ {
				subtotals.SetAlign(col, ui.AlignRight)
			}
			for _, s := range b.Groups {
				subtotals.AddRow(s.Name, strconv.Itoa(s.Items), output.Money(s.Total), output.Money(s.Annual))
			}
			for _, s := range b.Kinds {
				subtotals.AddRow("all "+s.Name, strconv.Itoa(s.Items), output.Money(s.Total), output.Money(s.Annual))
			}
			subtotals.Render()

			w.Println("")
			w.Success("Total: %s/month, %s/year", output.Money(b.Total), output.Money(b.Annual))
			return nil
		},
	}

	cmd.Flags().StringVarP(&region, "region", "r", "eu-west-1", "region of the starter bill")
	cmd.Flags().StringArrayVarP(&lineArgs, "line", "l", nil, "bill line as GROUP/ID=QUANTITY, repeatable")
	cmd.Flags().StringVar(&file, "file", "", "YAML or JSON list of {group, id, quantity} lines")
	return cmd
}

// parseLines reads GROUP/ID=QUANTITY flag values
func parseLines(args []string) ([]bill.Line, error) {
	lines := make([]bill.Line, 0, len(args))
	for _, arg := range args {
		key, qty, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, errors.Input(fmt.Sprintf("line %q: want GROUP/ID=QUANTITY", arg))
		}
		group, id, ok := strings.Cut(key, "/")
		if !ok || group == "" || id == "" {
			return nil, errors.Input(fmt.Sprintf("line %q: want GROUP/ID=QUANTITY", arg))
		}
		quantity, err := strconv.ParseFloat(qty, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.TypeInput, err, "line %q: bad quantity", arg)
		}
		lines = append(lines, bill.Line{Group: group, ID: id, Quantity: quantity})
	}
	return lines, nil
}

// readLines decodes a line list; JSON is read as YAML
func readLines(path string) ([]bill.Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "open bill file", err)
	}
	defer f.Close()

	var lines []bill.Line
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&lines); err != nil {
		return nil, errors.Parsing("decode "+path, err)
	}
	return lines, nil
}

func quantityLabel(kind types.Kind, quantity float64) string {
	n := strconv.FormatFloat(quantity, 'f', -1, 64)
	switch kind {
	case types.KindCompute:
		return n + " instances"
	case types.KindStorage:
		return n + " GB"
	case types.KindVector:
		return n + " DSU"
	default:
		return n
	}
}
