package logging

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func TestContextFields_Empty(t *testing.T) {
	assert.Empty(t, ContextFields(context.Background()))
}

func TestContextFields_OTELTracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(
		trace.WithSampler(trace.AlwaysSample()),
		trace.WithSyncer(exporter),
	)
	ctx, span := provider.Tracer("test").Start(context.Background(), "scan")
	defer span.End()

	fields := ContextFields(ctx)
	assertFieldExists(t, fields, "trace_id", span.SpanContext().TraceID().String())
	assertFieldExists(t, fields, "span_id", span.SpanContext().SpanID().String())

	var sampled bool
	for _, f := range fields {
		if f.Key == "trace_sampled" {
			sampled = true
		}
	}
	assert.True(t, sampled)
}

func TestContextFields_ScanAndRequest(t *testing.T) {
	ctx := WithScanID(context.Background(), "scan_abc")
	ctx = WithSource(ctx, "notes.txt")
	ctx = WithRequestID(ctx, "req-42")

	fields := ContextFields(ctx)
	assert.Len(t, fields, 3)
	assertFieldExists(t, fields, "scan.id", "scan_abc")
	assertFieldExists(t, fields, "scan.source", "notes.txt")
	assertFieldExists(t, fields, "request.id", "req-42")
}

func TestWithScanID_Generated(t *testing.T) {
	ctx := WithScanID(context.Background(), "")
	id := ScanIDFromContext(ctx)
	require.True(t, strings.HasPrefix(id, "scan_"))
	assert.NotEqual(t, id, ScanIDFromContext(WithScanID(context.Background(), "")))
}

func TestWithScanID_InvalidPanics(t *testing.T) {
	assert.Panics(t, func() { WithScanID(context.Background(), "bad id!") })
	assert.Panics(t, func() { WithScanID(context.Background(), strings.Repeat("a", maxIDLen+1)) })
}

func TestWithRequestID_Invalid(t *testing.T) {
	assert.Panics(t, func() { WithRequestID(context.Background(), "") })
	assert.Panics(t, func() { WithRequestID(context.Background(), "a b") })
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	tl := NewTestLogger()
	ctx := WithLogger(context.Background(), tl.Logger)
	assert.Same(t, tl.Logger, FromContext(ctx))
}

func assertFieldExists(t *testing.T, fields []zap.Field, key, value string) {
	t.Helper()
	for _, f := range fields {
		if f.Key == key {
			assert.Equal(t, value, f.String)
			return
		}
	}
	t.Errorf("field %q not found", key)
}
