// Package logging provides structured logging for addup.
//
// # Overview
//
// The package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Dual output (stderr + OpenTelemetry log bridge)
//   - Context field injection (trace_id, scan.id, scan.source, request.id)
//   - Optional sampling below error level
//
// Results go to stdout; logs never do.
//
// # Usage
//
//	cfg, err := logging.FromAppConfig(appCfg.Logging)
//	logger, err := logging.NewLogger(cfg, otelProvider)
//	defer logger.Sync()
//
//	ctx = logging.WithScanID(ctx, "")
//	ctx = logging.WithSource(ctx, "notes.txt")
//	logger.Info(ctx, "scan finished", zap.Int("accepted", n))
//
// The scanner takes a plain *zap.Logger; pass logger.Underlying().
//
// # Levels
//
//   - warn (default): dropped tokens, degraded formatting
//   - debug: every rejected token with line, stage and reason
//   - trace: every token
//
// # Testing
//
//	tl := logging.NewTestLogger()
//	tl.Debug(ctx, "token rejected", zap.String("reason", "letter"))
//	tl.AssertField(t, "token rejected", "reason", "letter")
package logging
