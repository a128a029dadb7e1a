// Package cmd - corpus command
package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"rag-cost/core/estimator"
	"rag-cost/core/output"
	"rag-cost/core/ranking"
	"rag-cost/core/types"
	"rag-cost/core/usage"
	"rag-cost/internal/errors"
)

func newCorpusCmd(a *app) *cobra.Command {
	var (
		corpus usage.Corpus
		group  string
		id     string
	)

	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Size a document corpus in DSU and price its vector storage",
		Long: `Estimate chunks, vectors and DSU for a set of documents and price
storing them with a vector database entry.

Every started chunk becomes one vector; one 768-dimension vector is one DSU.

Examples:
  rag-cost corpus --pages 700
  rag-cost corpus --pages 12000 --words-per-chunk 250 --dimensions 1536`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, source, err := a.loadCatalog()
			if err != nil {
				return err
			}
			entry, err := c.Lookup(group, id)
			if err != nil {
				return err
			}
			if entry.Kind != types.KindVector {
				return errors.Newf(errors.TypeInput, "%s is a %s entry, not a vector entry", entry.Key(), entry.Kind)
			}

			tracker := usage.NewAssumptionTracker()
			sized := corpus.WithDefaults(tracker)
			size, err := sized.Size()
			if err != nil {
				return err
			}
			p, err := sized.Profile()
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
				Title:       "Vector storage",
				Profile:     p,
				Corpus:      &size,
				Results:     []ranking.Result{{Entry: entry, Breakdown: breakdown}},
				Assumptions: tracker.All(),
				Metadata: output.Metadata{
					Timestamp: time.Now().UTC().Format(time.RFC3339),
					Version:   Version,
					Catalog:   source,
					Filter:    ranking.Filter{Provider: entry.Provider, Kind: types.KindVector},
				},
			})
		},
	}

	cmd.Flags().IntVar(&corpus.Pages, "pages", 1, "number of document pages")
	cmd.Flags().IntVar(&corpus.WordsPerPage, "words-per-page", 0, "average words per page (default 500)")
	cmd.Flags().IntVar(&corpus.WordsPerChunk, "words-per-chunk", 0, "words per chunk (default 350)")
	cmd.Flags().IntVar(&corpus.Dimensions, "dimensions", 0, "embedding dimensions (default 768)")
	cmd.Flags().StringVarP(&group, "group", "g", "DSU", "vector catalog group")
	cmd.Flags().StringVar(&id, "id", "dsu-768", "vector entry id")
	return cmd
}
