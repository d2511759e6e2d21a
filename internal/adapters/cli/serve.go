package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alesfranek-maf/uwapi/internal/adapters/httpapi"
	"github.com/alesfranek-maf/uwapi/internal/adapters/metrics"
	"github.com/alesfranek-maf/uwapi/internal/application/logging"
	"github.com/alesfranek-maf/uwapi/internal/infrastructure/pidfile"
)

// NewServeCommand creates the serve command running the HTTP planning API
func NewServeCommand() *cobra.Command {
	var (
		address string
		pidPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve plans over HTTP",
		Long: `Serve the planner over HTTP until interrupted.

Endpoints:
  GET /healthz
  GET /v1/plans/{unit}?qty=N&race=R
  GET /v1/build-plans/{unit}?qty=N&race=R
  GET /v1/names/{name}
  GET /v1/ws/plans        (websocket, one plan per request message)
  GET <metrics.path>      (when metrics are enabled)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			if pidPath == "" {
				pidPath = rt.cfg.Server.PIDFile
			}
			if pidPath != "" {
				pf := pidfile.New(pidPath)
				if err := pf.Acquire(); err != nil {
					return err
				}
				defer func() {
					if err := pf.Release(); err != nil {
						rt.logger.Log(logging.LevelWarn, "Failed to release PID file", map[string]interface{}{
							"path":  pidPath,
							"error": err.Error(),
						})
					}
				}()
			}

			if address == "" {
				address = rt.cfg.Server.Address
			}
			metricsPath := ""
			if metrics.IsEnabled() {
				metricsPath = rt.cfg.Metrics.Path
			}

			api := httpapi.NewServer(rt.mediator, rt.catalog, rt.logger, metricsPath).
				WithDefaultRace(rt.cfg.Catalog.Race).
				WithAllowedOrigins(rt.cfg.Server.AllowedOrigins...)
			srv := &http.Server{
				Addr:    address,
				Handler: api.Handler(),
			}

			errCh := make(chan error, 1)
			go func() {
				rt.logger.Log(logging.LevelInfo, "HTTP server listening", map[string]interface{}{
					"address": address,
					"scope":   rt.scope.String(),
				})
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			rt.logger.Log(logging.LevelInfo, "Shutting down HTTP server", nil)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "addr", "", "Listen address (default: server.address)")
	cmd.Flags().StringVar(&pidPath, "pid-file", "", "PID file guarding against a second server (default: server.pid_file)")

	return cmd
}
