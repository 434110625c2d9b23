package logging

import (
	"go.uber.org/zap/zapcore"
)

// newSampledCore samples entries below error level. Errors always pass so a
// flood of per-token trace output can never hide a failure.
func newSampledCore(core zapcore.Core, cfg SamplingConfig) zapcore.Core {
	if !cfg.Enabled {
		return core
	}

	chatty := zapcore.NewSamplerWithOptions(
		&levelRangeCore{Core: core, enabled: belowLevel(zapcore.ErrorLevel)},
		cfg.Tick.Duration(),
		cfg.Initial,
		cfg.Thereafter,
	)
	failures := &levelRangeCore{Core: core, enabled: zapcore.ErrorLevel}
	return zapcore.NewTee(failures, chatty)
}

// belowLevel enables every level strictly less than lvl.
type belowLevel zapcore.Level

func (b belowLevel) Enabled(lvl zapcore.Level) bool {
	return lvl < zapcore.Level(b)
}

// levelRangeCore narrows the levels an inner core accepts.
type levelRangeCore struct {
	zapcore.Core
	enabled zapcore.LevelEnabler
}

func (c *levelRangeCore) Enabled(lvl zapcore.Level) bool {
	return c.enabled.Enabled(lvl) && c.Core.Enabled(lvl)
}

func (c *levelRangeCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

func (c *levelRangeCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelRangeCore{Core: c.Core.With(fields), enabled: c.enabled}
}
