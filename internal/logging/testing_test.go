package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestTestLogger_AssertLogged(t *testing.T) {
	tl := NewTestLogger()
	ctx := context.Background()

	tl.Trace(ctx, "token seen", zap.String("token", "42"))
	tl.Debug(ctx, "token rejected", zap.String("reason", "letter"), zap.Int("line", 2))

	tl.AssertLogged(t, TraceLevel, "token seen")
	tl.AssertLogged(t, zapcore.DebugLevel, "rejected")
	assert.Len(t, tl.Messages("token rejected"), 1)
	tl.AssertNotLogged(t, zapcore.ErrorLevel, "token")
	tl.AssertField(t, "token rejected", "reason", "letter")
	tl.AssertField(t, "token rejected", "line", int64(2))
	assert.Len(t, tl.All(), 2)

	tl.Reset()
	assert.Empty(t, tl.All())
}

func TestTestLogger_AssertTraceCorrelation(t *testing.T) {
	tl := NewTestLogger()
	tp := trace.NewTracerProvider(trace.WithSampler(trace.AlwaysSample()))
	ctx, span := tp.Tracer("test").Start(context.Background(), "scan")
	defer span.End()

	tl.Info(ctx, "scan finished")
	tl.AssertTraceCorrelation(t, "scan finished")
}
