// Package telemetry wires OpenTelemetry tracing and metrics for addup.
//
// Every scan runs inside a "numscan.Scan" span; the HTTP server records
// request metrics through Meter. Both are exported over OTLP (gRPC or
// HTTP/protobuf) when enabled:
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  protocol: grpc
//
// Disabled or degraded instances fall back to the global no-op providers,
// so callers never branch on telemetry state.
//
// Tests use TestTelemetry:
//
//	tt := telemetry.NewTestTelemetry()
//	scanner, _ := numscan.NewScanner(settings, numscan.WithTracer(tt.Tracer("test")))
//	tt.AssertSpanExists(t, "numscan.Scan")
package telemetry
