package logging

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fyrsmithlabs/addup/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSampledCore_Disabled(t *testing.T) {
	core, _ := observer.New(zapcore.DebugLevel)
	assert.Same(t, core, newSampledCore(core, SamplingConfig{Enabled: false}))
}

func TestSampledCore_ErrorsNeverSampled(t *testing.T) {
	base, observed := observer.New(zapcore.DebugLevel)
	core := newSampledCore(base, SamplingConfig{
		Enabled:    true,
		Tick:       config.Duration(time.Minute),
		Initial:    2,
		Thereafter: 0,
	})

	for i := 0; i < 10; i++ {
		writeEntry(t, core, zapcore.InfoLevel, "repeated")
		writeEntry(t, core, zapcore.ErrorLevel, fmt.Sprintf("failure %d", i))
	}

	assert.Equal(t, 2, observed.FilterMessage("repeated").Len())
	assert.Equal(t, 10, observed.FilterMessageSnippet("failure").Len())
}

func TestLevelRangeCore(t *testing.T) {
	base, _ := observer.New(TraceLevel)
	c := &levelRangeCore{Core: base, enabled: belowLevel(zapcore.ErrorLevel)}
	assert.True(t, c.Enabled(TraceLevel))
	assert.True(t, c.Enabled(zapcore.WarnLevel))
	assert.False(t, c.Enabled(zapcore.ErrorLevel))

	c = &levelRangeCore{Core: base, enabled: zapcore.ErrorLevel}
	assert.False(t, c.Enabled(zapcore.WarnLevel))
	assert.True(t, c.Enabled(zapcore.ErrorLevel))
	assert.True(t, c.Enabled(zapcore.FatalLevel))
}

func TestLevelRangeCore_WithKeepsRange(t *testing.T) {
	base, observed := observer.New(TraceLevel)
	var c zapcore.Core = &levelRangeCore{Core: base, enabled: zapcore.ErrorLevel}
	c = c.With([]zapcore.Field{{Key: "scan.id", Type: zapcore.StringType, String: "scan_x"}})

	writeEntry(t, c, zapcore.InfoLevel, "dropped")
	writeEntry(t, c, zapcore.ErrorLevel, "kept")
	require.Equal(t, 1, observed.Len())
	assert.Equal(t, "scan_x", observed.All()[0].ContextMap()["scan.id"])
}

func TestNewLogger_WithSampling(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Level = zapcore.DebugLevel
	cfg.Sampling.Enabled = true
	var sb strings.Builder
	cfg.Sink = zapcore.AddSync(&sb)

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		logger.Info(context.Background(), "flood")
	}
	lines := strings.Count(sb.String(), "flood")
	assert.Less(t, lines, 500)
	assert.GreaterOrEqual(t, lines, cfg.Sampling.Initial)
}

func writeEntry(t *testing.T, core zapcore.Core, lvl zapcore.Level, msg string) {
	t.Helper()
	entry := zapcore.Entry{Level: lvl, Message: msg, Time: time.Now()}
	if ce := core.Check(entry, nil); ce != nil {
		ce.Write()
	}
}
