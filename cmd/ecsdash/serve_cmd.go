// File: cmd/ecsdash/serve_cmd.go
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"ecsdash/internal/flags"
	"ecsdash/internal/procstate"
	"ecsdash/internal/server"
	"ecsdash/internal/sysinfo"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	var address string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP server",
		Long: `Starts the HTTP server that renders the dashboard and its JSON API.
The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			if address != "" {
				app.Config.Server.Address = address
			}

			// Created before the server so that uptime covers the whole process
			tracker := procstate.NewTracker()
			collector := sysinfo.NewCollector(app.Logger)

			// One storage client serves every request. A provider that cannot be set up yet
			// is retried on the first bucket request, health and info keep working meanwhile
			defer app.BucketService.Close()
			if err := app.BucketService.Warm(cmd.Context(), app.Config.Buckets.Provider); err != nil {
				app.Logger.Warn("Storage client not ready", "provider", app.Config.Buckets.Provider, "error", err)
			}

			srv, err := server.NewServer(app.Config, app.BucketService, tracker, collector, app.Logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			app.Logger.Info("Shutdown signal received")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("error during shutdown: %w", err)
			}
			return <-errCh
		},
	}
	serveCmd.Flags().StringVarP(&address, flags.Address, flags.AddressShort, "", "Listen address, overrides server.address")

	return serveCmd
}
