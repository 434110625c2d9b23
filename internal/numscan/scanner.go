package numscan

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const instrumentationName = "github.com/fyrsmithlabs/addup/internal/numscan"

// traceLevel matches logging.TraceLevel; accepted tokens are only logged there.
const traceLevel = zapcore.Level(-2)

// Observer is told about every token a scan looks at.
type Observer interface {
	ObserveToken(ctx context.Context, line int, token string, r Result)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, line int, token string, r Result)

// ObserveToken calls f.
func (f ObserverFunc) ObserveToken(ctx context.Context, line int, token string, r Result) {
	f(ctx, line, token, r)
}

// Observers fans a token out to several observers in order.
type Observers []Observer

// ObserveToken calls every observer.
func (o Observers) ObserveToken(ctx context.Context, line int, token string, r Result) {
	for _, obs := range o {
		obs.ObserveToken(ctx, line, token, r)
	}
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used for per-token debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer sets the tracer used for the scan span.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Scanner) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithObserver registers an observer for token outcomes.
func WithObserver(obs Observer) Option {
	return func(s *Scanner) {
		if obs != nil {
			s.observers = append(s.observers, obs)
		}
	}
}

// Scanner walks selection blocks line by line and token by token.
type Scanner struct {
	parser    *Parser
	logger    *zap.Logger
	tracer    trace.Tracer
	observers Observers
}

// NewScanner builds a scanner for the given precision context.
func NewScanner(settings Settings, opts ...Option) (*Scanner, error) {
	parser, err := NewParser(settings)
	if err != nil {
		return nil, err
	}
	s := &Scanner{
		parser: parser,
		logger: zap.NewNop(),
		tracer: noop.NewTracerProvider().Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Parser exposes the scanner's token parser.
func (s *Scanner) Parser() *Parser {
	return s.parser
}

// Scan processes blocks in order. Each block is trimmed, split on newlines
// and then on whitespace.
//
// Cancellation is checked between tokens. On cancellation the state for the
// tokens seen so far is returned together with the context error; that
// partial total is always consistent.
func (s *Scanner) Scan(ctx context.Context, blocks []string) (*RunState, error) {
	state, err := NewRunState(s.parser.Settings())
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "numscan.Scan",
		trace.WithAttributes(attribute.Int("scan.blocks", len(blocks))))
	defer span.End()

	for _, block := range blocks {
		for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
			state.LineCount++
			for _, token := range strings.Fields(line) {
				if err := ctx.Err(); err != nil {
					span.RecordError(err)
					span.SetStatus(codes.Error, "scan interrupted")
					s.endSpan(span, state)
					return state, err
				}
				s.scanToken(ctx, state, token)
			}
		}
	}

	s.endSpan(span, state)
	s.logger.Debug("scan complete",
		zap.Int("lines", state.LineCount),
		zap.Int("tokens", state.TokenCount),
		zap.Int("accepted", state.AcceptedCount),
		zap.Int("rejected", state.RejectedCount),
		zap.Int("skipped_precision", state.SkippedForPrecision),
		zap.Int("conversion_failures", state.ConversionFailures),
	)
	return state, nil
}

func (s *Scanner) scanToken(ctx context.Context, state *RunState, token string) {
	state.TokenCount++
	res := s.parser.Parse(token, state)
	if res.Accepted() {
		if err := state.Add(res); err != nil {
			s.logger.Warn("token dropped",
				zap.Int("line", state.LineCount), zap.String("token", token), zap.Error(err))
			res = Result{Reason: ReasonOverflow, Stage: StageAccumulate, Cleaned: res.Cleaned}
		}
	}
	if !res.Accepted() {
		state.RejectedCount++
		s.logger.Debug("token rejected",
			zap.Int("line", state.LineCount),
			zap.String("token", token),
			zap.String("stage", string(res.Stage)),
			zap.String("reason", string(res.Reason)),
		)
	} else if ce := s.logger.Check(traceLevel, "token accepted"); ce != nil {
		ce.Write(
			zap.Int("line", state.LineCount),
			zap.String("token", token),
			zap.String("value", res.Value.String()),
			zap.Bool("negative", res.Negative),
		)
	}
	s.observers.ObserveToken(ctx, state.LineCount, token, res)
}

func (s *Scanner) endSpan(span trace.Span, state *RunState) {
	span.SetAttributes(
		attribute.Int("scan.lines", state.LineCount),
		attribute.Int("scan.tokens", state.TokenCount),
		attribute.Int("scan.accepted", state.AcceptedCount),
		attribute.Int("scan.negative", state.NegativeCount),
		attribute.Int("scan.skipped_precision", state.SkippedForPrecision),
	)
}

// Summarize scans blocks and formats the result.
func (s *Scanner) Summarize(ctx context.Context, blocks []string) (Summary, error) {
	state, err := s.Scan(ctx, blocks)
	if err != nil {
		return Summary{}, err
	}
	summary := state.Summary()
	if summary.Degraded {
		s.logger.Warn("display rounding failed, showing full precision",
			zap.Int("line", state.LineCount),
			zap.String("total", summary.Total))
	}
	return summary, nil
}
