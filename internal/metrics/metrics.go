// Package metrics exposes scan counters in Prometheus form for the
// /metrics endpoint and node_exporter textfiles.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/addup/internal/numscan"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for addup_tokens_total.
const (
	OutcomeAccepted = "accepted"
	OutcomeNegative = "negative"
	OutcomeRejected = "rejected"
)

// Metrics holds the scan collectors. Each instance owns its registry so
// tests and multiple servers in one process never collide.
type Metrics struct {
	registry *prometheus.Registry

	// addup_tokens_total{outcome}
	TokensTotal *prometheus.CounterVec

	// addup_rejections_total{stage,reason}
	RejectionsTotal *prometheus.CounterVec

	// addup_scans_total{source}
	ScansTotal *prometheus.CounterVec

	ScanDuration      prometheus.Histogram
	LinesTotal        prometheus.Counter
	PrecisionSkipped  prometheus.Counter
	DegradedFormats   prometheus.Counter
	LastAcceptedCount prometheus.Gauge
}

// New creates and registers the scan metrics on a fresh registry.
//
// Metrics:
//   - addup_tokens_total{outcome} - tokens seen, by accepted/negative/rejected
//   - addup_rejections_total{stage,reason} - rejected tokens by pipeline stage
//   - addup_scans_total{source} - completed scans
//   - addup_scan_duration_seconds - scan wall time
//   - addup_lines_total - lines scanned
//   - addup_precision_skipped_total - tokens at or over the digit ceiling
//   - addup_degraded_formats_total - totals shown at full precision after a cents quantize failure
//   - addup_last_accepted_count - accepted numbers in the most recent scan
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		TokensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "addup_tokens_total",
				Help: "Total number of tokens examined",
			},
			[]string{"outcome"},
		),
		RejectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "addup_rejections_total",
				Help: "Total number of rejected tokens by stage and reason",
			},
			[]string{"stage", "reason"},
		),
		ScansTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "addup_scans_total",
				Help: "Total number of completed scans",
			},
			[]string{"source"},
		),
		ScanDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "addup_scan_duration_seconds",
				Help:    "Duration of a scan in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 100us to ~26s
			},
		),
		LinesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "addup_lines_total",
				Help: "Total number of lines scanned",
			},
		),
		PrecisionSkipped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "addup_precision_skipped_total",
				Help: "Total number of tokens ignored for exceeding the digit ceiling",
			},
		),
		DegradedFormats: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "addup_degraded_formats_total",
				Help: "Total number of totals displayed at full precision because cents quantization failed",
			},
		),
		LastAcceptedCount: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "addup_last_accepted_count",
				Help: "Accepted numbers in the most recent scan",
			},
		),
	}
}

// WithProcessCollectors adds the Go runtime and process collectors, for
// long-running servers.
func (m *Metrics) WithProcessCollectors() *Metrics {
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveToken implements numscan.Observer.
func (m *Metrics) ObserveToken(_ context.Context, _ int, _ string, r numscan.Result) {
	switch {
	case r.Accepted() && r.Negative:
		m.TokensTotal.WithLabelValues(OutcomeNegative).Inc()
	case r.Accepted():
		m.TokensTotal.WithLabelValues(OutcomeAccepted).Inc()
	default:
		m.TokensTotal.WithLabelValues(OutcomeRejected).Inc()
		m.RejectionsTotal.WithLabelValues(string(r.Stage), string(r.Reason)).Inc()
	}
}

// RecordScan records a finished scan.
func (m *Metrics) RecordScan(source string, s numscan.Summary, elapsed time.Duration) {
	m.ScansTotal.WithLabelValues(source).Inc()
	m.ScanDuration.Observe(elapsed.Seconds())
	m.LinesTotal.Add(float64(s.LineCount))
	m.PrecisionSkipped.Add(float64(s.SkippedForPrecisionCount))
	if s.Degraded {
		m.DegradedFormats.Inc()
	}
	m.LastAcceptedCount.Set(float64(s.AcceptedCount))
}

// WriteTextfile writes every metric in the text exposition format to path,
// atomically, for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

var _ numscan.Observer = (*Metrics)(nil)
