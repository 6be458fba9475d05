package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/corpusplan/internal/api"
	"github.com/rgehrsitz/corpusplan/internal/planner"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := a.settings.Server.Addr
			if cmd.Flags().Changed("addr") {
				addr, _ = cmd.Flags().GetString("addr")
			}

			pl := planner.New(a.newEngine(nil))
			router := api.NewRouter(api.NewHandler(pl, version), a.settings.Server.AllowedOrigins, a.logger)
			srv := api.NewServer(addr, router)

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info().Str("addr", addr).Msg("HTTP server listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
				a.logger.Info().Msg("shutting down HTTP server")
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(ctx)
			}
		},
	}
	cmd.Flags().String("addr", ":8080", "Listen address (overrides settings)")
	return cmd
}
