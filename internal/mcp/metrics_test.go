package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/fyrsmithlabs/addup/internal/numscan"
	"github.com/fyrsmithlabs/addup/internal/telemetry"
)

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"invalid input", fmt.Errorf("%w: tokens is required", errInvalidInput), "validation_error"},
		{"invalid settings", fmt.Errorf("%w: max precision", numscan.ErrInvalidSettings), "validation_error"},
		{"deadline", fmt.Errorf("scan aborted: %w", context.DeadlineExceeded), "timeout"},
		{"canceled", context.Canceled, "canceled"},
		{"other", errors.New("boom"), "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, categorizeError(tt.err))
		})
	}
}

func TestMetrics_StartAndRecord(t *testing.T) {
	tel := telemetry.NewTestTelemetry()
	ctx := context.Background()
	m := NewMetrics(tel.Meter(instrumentationName), nil)

	done := m.start(ctx, toolSumNumbers)
	m.RecordInvocation(ctx, toolSumNumbers, 2*time.Millisecond, nil)
	done(42, errInvalidInput)

	invocations, ok := tel.FindMetric(ctx, "addup.mcp.tool.invocations_total")
	if assert.True(t, ok) {
		sum, ok := invocations.Data.(metricdata.Sum[int64])
		if assert.True(t, ok) && assert.Len(t, sum.DataPoints, 1) {
			assert.Equal(t, int64(2), sum.DataPoints[0].Value)
		}
	}

	errs, ok := tel.FindMetric(ctx, "addup.mcp.tool.errors_total")
	if assert.True(t, ok) {
		sum, ok := errs.Data.(metricdata.Sum[int64])
		if assert.True(t, ok) && assert.Len(t, sum.DataPoints, 1) {
			reason, _ := sum.DataPoints[0].Attributes.Value("reason")
			assert.Equal(t, "validation_error", reason.AsString())
		}
	}

	active, ok := tel.FindMetric(ctx, "addup.mcp.tool.active_requests")
	if assert.True(t, ok) {
		sum, ok := active.Data.(metricdata.Sum[int64])
		if assert.True(t, ok) && assert.Len(t, sum.DataPoints, 1) {
			assert.Equal(t, int64(0), sum.DataPoints[0].Value)
		}
	}

	tokens, ok := tel.FindMetric(ctx, "addup.mcp.tool.tokens")
	if assert.True(t, ok) {
		hist, ok := tokens.Data.(metricdata.Histogram[int64])
		if assert.True(t, ok) && assert.Len(t, hist.DataPoints, 1) {
			assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
			assert.Equal(t, int64(42), hist.DataPoints[0].Sum)
		}
	}
}
