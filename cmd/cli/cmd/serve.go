// Package cmd - serve command
package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rag-cost/api"
	"rag-cost/core/catalog"
	"rag-cost/internal/errors"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the estimator over HTTP",
		Long: `Start the HTTP API.

Endpoints:
  POST /estimate  price one entry
  POST /rank      rank entries matching a filter
  POST /corpus    size a corpus and price vector storage
  GET  /catalog   list the active catalog
  GET  /health
  GET  /version

With --watch the catalog file is reloaded when it changes. A file that fails
validation is reported and the previous catalog stays active.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("watch") {
				a.cfg.Catalog.Watch = watch
			}

			c, source, err := a.loadCatalog()
			if err != nil {
				return err
			}

			store := catalog.NewStore(c, a.logger)
			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if a.cfg.Catalog.Watch {
				if a.cfg.Catalog.Path == "" {
					return errors.Input("--watch needs a catalog file")
				}
				if err := store.Watch(ctx, a.cfg.Catalog.Path, nil); err != nil {
					return err
				}
			}

			server := api.NewServer(store, api.Options{
				Version:  Version,
				Defaults: a.cfg.Defaults,
				Logger:   a.logger,
			})

			fmt.Fprintf(cmd.OutOrStdout(), "rag-cost server v%s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "   API:     http://localhost%s\n", a.cfg.Server.Addr)
			fmt.Fprintf(cmd.OutOrStdout(), "   Catalog: %s (%d entries)\n", source, c.Len())

			return server.ListenAndServe(ctx, a.cfg.Server.Addr,
				time.Duration(a.cfg.Server.ReadTimeoutSeconds)*time.Second,
				time.Duration(a.cfg.Server.WriteTimeoutSeconds)*time.Second)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the catalog file when it changes")
	return cmd
}
