package mcp

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/addup/internal/numscan"
)

// Metrics holds the MCP tool instruments. Instruments that failed to
// register are nil and skipped.
type Metrics struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
	failures metric.Int64Counter
	inflight metric.Int64UpDownCounter
	tokens   metric.Int64Histogram
}

// NewMetrics registers the tool instruments on meter.
func NewMetrics(meter metric.Meter, logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		m    Metrics
		err  error
		errs []error
	)
	m.calls, err = meter.Int64Counter("addup.mcp.tool.invocations_total",
		metric.WithDescription("MCP tool calls"),
		metric.WithUnit("{invocation}"))
	errs = append(errs, err)

	m.duration, err = meter.Float64Histogram("addup.mcp.tool.duration_seconds",
		metric.WithDescription("MCP tool call latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5))
	errs = append(errs, err)

	m.failures, err = meter.Int64Counter("addup.mcp.tool.errors_total",
		metric.WithDescription("MCP tool calls that returned an error, by reason"),
		metric.WithUnit("{error}"))
	errs = append(errs, err)

	m.inflight, err = meter.Int64UpDownCounter("addup.mcp.tool.active_requests",
		metric.WithDescription("MCP tool calls in progress"),
		metric.WithUnit("{request}"))
	errs = append(errs, err)

	m.tokens, err = meter.Int64Histogram("addup.mcp.tool.tokens",
		metric.WithDescription("Tokens examined per MCP tool call"),
		metric.WithUnit("{token}"),
		metric.WithExplicitBucketBoundaries(1, 10, 100, 1000, 10000, 100000))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		logger.Warn("some mcp instruments unavailable", zap.Error(err))
	}
	return &m
}

// start marks a call to tool as in flight. The returned func ends it with
// the number of tokens examined and the call's error.
func (m *Metrics) start(ctx context.Context, tool string) func(tokens int, err error) {
	begin := time.Now()
	attrs := metric.WithAttributes(attribute.String("tool", tool))
	if m.inflight != nil {
		m.inflight.Add(ctx, 1, attrs)
	}
	return func(tokens int, err error) {
		if m.inflight != nil {
			m.inflight.Add(ctx, -1, attrs)
		}
		if m.tokens != nil && tokens > 0 {
			m.tokens.Record(ctx, int64(tokens), attrs)
		}
		m.RecordInvocation(ctx, tool, time.Since(begin), err)
	}
}

// RecordInvocation records one finished tool call.
func (m *Metrics) RecordInvocation(ctx context.Context, tool string, elapsed time.Duration, err error) {
	toolAttr := attribute.String("tool", tool)
	if m.calls != nil {
		m.calls.Add(ctx, 1, metric.WithAttributes(toolAttr))
	}
	if m.duration != nil {
		m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(toolAttr))
	}
	if err != nil && m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(toolAttr, attribute.String("reason", categorizeError(err))))
	}
}

// categorizeError maps a tool error to a low-cardinality reason.
func categorizeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errInvalidInput), errors.Is(err, numscan.ErrInvalidSettings):
		return "validation_error"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "internal_error"
	}
}
