package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/addup/internal/metrics"
	"github.com/fyrsmithlabs/addup/internal/numscan"
	"github.com/fyrsmithlabs/addup/internal/telemetry"
)

const (
	instrumentationName = "github.com/fyrsmithlabs/addup/internal/mcp"
	sourceName          = "mcp"
)

// Server exposes the scanner as MCP tools.
type Server struct {
	mcp        *mcp.Server
	settings   numscan.Settings
	logger     *zap.Logger
	tracer     trace.Tracer
	toolMetric *Metrics
	scanMetric *metrics.Metrics
}

// Config configures the MCP server.
type Config struct {
	// Name is the server implementation name (default: "addup")
	Name string

	// Version is the server version (default: "dev")
	Version string

	// Logger for structured logging
	Logger *zap.Logger

	// Telemetry traces tool calls and records tool metrics. Optional.
	Telemetry *telemetry.Telemetry

	// Metrics receives token and scan counts. Optional.
	Metrics *metrics.Metrics
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "addup",
		Version: "dev",
		Logger:  zap.NewNop(),
	}
}

// NewServer creates an MCP server whose tools scan with settings unless a
// call overrides them.
func NewServer(cfg *Config, settings numscan.Settings) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	name, version := cfg.Name, cfg.Version
	if name == "" {
		name = "addup"
	}
	if version == "" {
		version = "dev"
	}

	s := &Server{
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    name,
				Version: version,
			},
			nil,
		),
		settings:   settings,
		logger:     logger,
		scanMetric: cfg.Metrics,
	}

	if cfg.Telemetry != nil {
		s.tracer = cfg.Telemetry.Tracer(instrumentationName)
		s.toolMetric = NewMetrics(cfg.Telemetry.Meter(instrumentationName), logger)
	} else {
		s.tracer = tracenoop.NewTracerProvider().Tracer(instrumentationName)
		s.toolMetric = NewMetrics(metricnoop.NewMeterProvider().Meter(instrumentationName), logger)
	}

	s.registerTools()
	return s, nil
}

// Run serves on the stdio transport until ctx is done or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio transport")
	return s.serve(ctx, &mcp.StdioTransport{})
}

func (s *Server) serve(ctx context.Context, transport mcp.Transport) error {
	if err := s.mcp.Run(ctx, transport); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}
