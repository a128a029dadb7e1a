// Package cmd provides the CLI commands for rag-cost.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rag-cost/core/catalog"
	"rag-cost/core/output"
	"rag-cost/core/ui"
	"rag-cost/internal/config"
	"rag-cost/internal/logging"
)

// Version is set at build time
var Version = "0.1.0"

// app is the state shared by every subcommand
type app struct {
	cfgFile     string
	catalogPath string
	envFile     string
	format      string
	verbose     bool
	noColor     bool

	cfg    *config.Config
	logger *zap.Logger
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "rag-cost",
		Short: "Estimate and compare the running cost of RAG workloads",
		Long: `rag-cost prices a usage profile against a catalog of LLM, compute,
storage and vector database rates and ranks the results.

Examples:
  rag-cost estimate --group OpenAI --id gpt-4.1 --cache 0.5
  rag-cost rank --kind llm --top 5
  rag-cost rank --where "entry.has_cache && cost.total < 50.0"
  rag-cost compare --group OpenAI --id gpt-4.1 --against-cache 0.5
  rag-cost bill --region eu-west-2
  rag-cost corpus --pages 700
  rag-cost serve --addr :8080 --catalog prices.yaml --watch`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file, JSON or YAML")
	flags.StringVar(&a.catalogPath, "catalog", "", "price catalog file (default is the built-in catalog)")
	flags.StringVar(&a.envFile, "env-file", ".env", "environment file to load")
	flags.StringVarP(&a.format, "format", "f", "", "output format (table, json, markdown)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newEstimateCmd(a),
		newRankCmd(a),
		newCompareCmd(a),
		newBillCmd(a),
		newCorpusCmd(a),
		newCatalogCmd(a),
		newConfigCmd(),
		newServeCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func (a *app) init() error {
	if err := config.LoadEnvFile(a.envFile); err != nil {
		return err
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.catalogPath != "" {
		cfg.Catalog.Path = a.catalogPath
	}
	if a.format != "" {
		cfg.Output.DefaultFormat = a.format
	}
	if a.noColor {
		cfg.Output.Color = false
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	config.Set(cfg)
	a.cfg = cfg

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	a.logger = logging.Logger
	return nil
}

// loadCatalog returns the configured catalog file or the built-in one
func (a *app) loadCatalog() (*catalog.Catalog, string, error) {
	path := a.cfg.Catalog.Path
	if path == "" {
		c, err := catalog.Builtin()
		return c, "builtin", err
	}

	c, err := catalog.LoadFile(path)
	if err != nil {
		return nil, path, err
	}
	a.logger.Debug("catalog loaded", zap.String("path", path), zap.Int("entries", c.Len()))
	return c, path, nil
}

// writer returns a terminal writer; --verbose turns on de-emphasized detail lines
func (a *app) writer(cmd *cobra.Command) *ui.Writer {
	w := ui.NewWriter(cmd.OutOrStdout(), !a.cfg.Output.Color)
	if a.verbose {
		w.SetVerbosity(2)
	}
	return w
}

// formatter returns the renderer for the configured output format
func (a *app) formatter() (output.Formatter, error) {
	format := output.Format(a.cfg.Output.DefaultFormat)
	if format == output.FormatTable {
		return output.NewTableFormatter(!a.cfg.Output.Color), nil
	}
	return output.NewRegistry().Get(format)
}

// newVersionCmd prints version information
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rag-cost version %s\n", Version)
		},
	}
}
