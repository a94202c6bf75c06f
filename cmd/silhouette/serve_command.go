package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"silhouette/internal/api"
	"silhouette/internal/config"
	"silhouette/internal/jobs"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bindFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only job API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, store *jobs.Store) error {
				bind := strings.TrimSpace(bindFlag)
				if bind == "" {
					bind = cfg.API.Bind
				}
				server, err := api.NewServer(bind, store, logger)
				if err != nil {
					return err
				}
				if err := server.Listen(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Serving job API on http://%s (Ctrl+C to stop)\n", server.Addr())
				return server.Serve(cmd.Context())
			})
		},
	}
	cmd.Flags().StringVar(&bindFlag, "bind", "", "Listen address (overrides api.bind)")
	return cmd
}
