package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/addup/internal/config"
	httpapi "github.com/fyrsmithlabs/addup/internal/http"
	"github.com/fyrsmithlabs/addup/internal/metrics"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scanner over HTTP",
		Long: `Start the HTTP API.

Endpoints:
  POST /api/v1/sum    scan text or blocks and return the summary
  POST /api/v1/check  explain single tokens
  GET  /health        liveness and telemetry status
  GET  /metrics       Prometheus metrics

Examples:
  addup serve
  ADDUP_SERVER_PORT=8080 addup serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := httpConfig(a.cfg.Server)
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			return a.runServe(cmd.Context(), cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from server.host)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from server.port)")
	addSettingsFlags(cmd)
	return cmd
}

// httpConfig maps the server section onto the HTTP package's config.
func httpConfig(c config.ServerConfig) *httpapi.Config {
	return &httpapi.Config{
		Host:         c.Host,
		Port:         c.Port,
		RateLimit:    c.RateLimit,
		RateBurst:    c.RateBurst,
		MaxBodyBytes: c.MaxBodyBytes,
	}
}

func (a *app) runServe(ctx context.Context, cmd *cobra.Command, cfg *httpapi.Config) error {
	logger := a.logger.Underlying().Named("http")

	srv, err := httpapi.NewServer(a.settings(cmd), logger, cfg,
		httpapi.WithMetrics(metrics.New().WithProcessCollectors()),
		httpapi.WithTelemetry(a.tel),
		httpapi.WithVersion(version),
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", a.cfg.Server.ShutdownTimeout.Duration()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}
