// Package http exposes the scanner over a JSON HTTP API.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fyrsmithlabs/addup/internal/display"
	"github.com/fyrsmithlabs/addup/internal/logging"
	"github.com/fyrsmithlabs/addup/internal/metrics"
	"github.com/fyrsmithlabs/addup/internal/numscan"
	"github.com/fyrsmithlabs/addup/internal/telemetry"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// MaxCheckTokens bounds a single /api/v1/check request.
	MaxCheckTokens = 1000

	sourceName = "http"
)

// Config holds HTTP server configuration.
type Config struct {
	Host         string
	Port         int
	RateLimit    float64 // requests per second per client IP, 0 disables
	RateBurst    int
	MaxBodyBytes int64
}

// DefaultConfig returns the listener defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:         "localhost",
		Port:         9191,
		RateLimit:    20,
		RateBurst:    40,
		MaxBodyBytes: 4 << 20,
	}
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records scans and serves /metrics from m's registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithTelemetry traces requests and records HTTP metrics through tel.
func WithTelemetry(tel *telemetry.Telemetry) Option {
	return func(s *Server) { s.tel = tel }
}

// WithVersion is reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// Server provides HTTP endpoints for addup.
type Server struct {
	echo     *echo.Echo
	settings numscan.Settings
	logger   *zap.Logger
	config   *Config
	metrics  *metrics.Metrics
	tel      *telemetry.Telemetry
	tracer   trace.Tracer
	version  string
}

// NewServer creates a new HTTP server. settings is the default precision
// context; requests may override it per call.
func NewServer(settings numscan.Settings, logger *zap.Logger, cfg *Config, opts ...Option) (*Server, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		settings: settings,
		logger:   logger,
		config:   cfg,
	}
	for _, opt := range opts {
		opt(s)
	}

	var meter metric.Meter = noop.NewMeterProvider().Meter(httpInstrumentationName)
	s.tracer = tracenoop.NewTracerProvider().Tracer(httpInstrumentationName)
	if s.tel != nil {
		meter = s.tel.Meter(httpInstrumentationName)
		s.tracer = s.tel.Tracer(httpInstrumentationName)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger())
	e.Use(NewHTTPMetrics(meter, logger).MetricsMiddleware())
	if cfg.MaxBodyBytes > 0 {
		e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", cfg.MaxBodyBytes)))
	}
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/health" || c.Path() == "/metrics"
			},
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimit),
				Burst:     cfg.RateBurst,
				ExpiresIn: 3 * time.Minute,
			}),
		}))
	}

	s.echo = e
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})))
	}

	v1 := s.echo.Group("/api/v1")
	v1.POST("/sum", s.handleSum)
	v1.POST("/check", s.handleCheck)
}

// requestLogger logs each request and tags the request context with its ID.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			if logging.ValidID(requestID) {
				req := c.Request()
				c.SetRequest(req.WithContext(logging.WithRequestID(req.Context(), requestID)))
			}

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			s.logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", requestID),
			)
			return nil
		}
	}
}

// SumRequest is the request body for POST /api/v1/sum. Text is one block;
// Blocks are several, scanned in order after Text.
type SumRequest struct {
	Text         string   `json:"text,omitempty"`
	Blocks       []string `json:"blocks,omitempty"`
	MaxPrecision *uint32  `json:"max_precision,omitempty"`
	Scientific   *bool    `json:"scientific,omitempty"`
}

// SumResponse is the response body for POST /api/v1/sum.
type SumResponse struct {
	numscan.Summary
	Notices []string `json:"notices,omitempty"`
}

// CheckRequest is the request body for POST /api/v1/check.
type CheckRequest struct {
	Tokens     []string `json:"tokens"`
	Scientific *bool    `json:"scientific,omitempty"`
}

// CheckResponse is the response body for POST /api/v1/check.
type CheckResponse struct {
	Results []display.Check `json:"results"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status    string                  `json:"status"`
	Version   string                  `json:"version,omitempty"`
	Telemetry *telemetry.HealthStatus `json:"telemetry,omitempty"`
}

func (s *Server) handleHealth(c echo.Context) error {
	resp := HealthResponse{Status: "ok", Version: s.version}
	if s.tel != nil {
		h := s.tel.Health()
		resp.Telemetry = &h
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSum(c echo.Context) error {
	var req SumRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid sum request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	blocks := req.Blocks
	if req.Text != "" {
		blocks = append([]string{req.Text}, blocks...)
	}
	if len(blocks) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "text or blocks is required")
	}

	settings := s.settings
	if req.MaxPrecision != nil {
		settings.MaxPrecision = *req.MaxPrecision
	}
	if req.Scientific != nil {
		settings.Scientific = *req.Scientific
	}

	ctx := logging.WithSource(logging.WithScanID(c.Request().Context(), ""), sourceName)
	ctx, span := s.tracer.Start(ctx, "http.sum", trace.WithAttributes(attribute.Int("scan.blocks", len(blocks))))
	defer span.End()

	opts := []numscan.Option{
		numscan.WithLogger(s.logger.With(zap.String("scan.id", logging.ScanIDFromContext(ctx)))),
		numscan.WithTracer(s.tracer),
	}
	if s.metrics != nil {
		opts = append(opts, numscan.WithObserver(s.metrics))
	}
	scanner, err := numscan.NewScanner(settings, opts...)
	if err != nil {
		if errors.Is(err, numscan.ErrInvalidSettings) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	start := time.Now()
	summary, err := scanner.Summarize(ctx, blocks)
	if err != nil {
		s.logger.Warn("scan aborted", zap.Error(err))
		return echo.NewHTTPError(http.StatusServiceUnavailable, "scan aborted")
	}
	if s.metrics != nil {
		s.metrics.RecordScan(sourceName, summary, time.Since(start))
	}

	return c.JSON(http.StatusOK, SumResponse{Summary: summary, Notices: summary.Notices()})
}

func (s *Server) handleCheck(c echo.Context) error {
	var req CheckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Tokens) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "tokens is required")
	}
	if len(req.Tokens) > MaxCheckTokens {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("at most %d tokens per request", MaxCheckTokens))
	}

	settings := s.settings
	if req.Scientific != nil {
		settings.Scientific = *req.Scientific
	}
	parser, err := numscan.NewParser(settings)
	if err != nil {
		return err
	}

	results := make([]display.Check, len(req.Tokens))
	for i, tok := range req.Tokens {
		results[i] = display.NewCheck(tok, parser.Parse(tok, nil))
	}
	return c.JSON(http.StatusOK, CheckResponse{Results: results})
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Start listens on Addr and blocks until Shutdown. It returns nil after a
// clean shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.Addr()))
	if err := s.echo.Start(s.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
