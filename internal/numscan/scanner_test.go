package numscan

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const (
	scenarioA = `7. "-$10.00," +$700.----- (00.100) $1,000,000.-- "199.99*" "1" -$$9 [-$400.00] [-[$600*]*] +++[[500]] [[100*]*]`
	scenarioB = `1,00.123 2008-10-09 70,00,00.00 -[-[40]] 7*7 11? 46.58% 1.1.0.168 5x 10-1 ]7[ *9`
	scenarioC = `+7.89101112131415E-12 [231.1232132312E+12] [1.00001E30] "+17E39"`
)

func newTestScanner(t *testing.T, opts ...Option) *Scanner {
	t.Helper()
	s, err := NewScanner(DefaultSettings(), opts...)
	require.NoError(t, err)
	return s
}

func TestScanner_ScenarioA(t *testing.T) {
	s := newTestScanner(t)

	state, err := s.Scan(context.Background(), []string{scenarioA})
	require.NoError(t, err)

	assert.Equal(t, 12, state.TokenCount)
	assert.Equal(t, 12, state.AcceptedCount)
	assert.Zero(t, state.RejectedCount)
	assert.Equal(t, 4, state.NegativeCount)

	sum := state.Summary()
	assert.Equal(t, "Selected Sum = 1000489.09", sum.DisplayString)
	assert.Equal(t, []string{"Note: 4 negative numbers were evaluated and subtracted."}, sum.Notices())
}

func TestScanner_ScenarioB(t *testing.T) {
	s := newTestScanner(t)

	state, err := s.Scan(context.Background(), []string{scenarioB})
	require.NoError(t, err)

	assert.Equal(t, 12, state.TokenCount)
	assert.Zero(t, state.AcceptedCount)
	assert.Equal(t, 12, state.RejectedCount)
	assert.Equal(t, NoNumbersMessage, state.Summary().DisplayString)
}

func TestScanner_ScenarioC(t *testing.T) {
	s := newTestScanner(t)

	state, err := s.Scan(context.Background(), []string{scenarioC})
	require.NoError(t, err)

	assert.Equal(t, 4, state.AcceptedCount)
	assert.False(t, state.Inexact)
	assert.Equal(t,
		"Selected Sum = 17000000001000010000000000231123213231200.00000000000789101112131415",
		state.Summary().DisplayString)
}

func TestScanner_MultipleBlocksAndLines(t *testing.T) {
	s := newTestScanner(t)

	blocks := []string{
		"  rent $1,200.00\n  food $310.45\n",
		"refund\t-$10.45\n\n",
	}
	state, err := s.Scan(context.Background(), blocks)
	require.NoError(t, err)

	assert.Equal(t, 3, state.LineCount)
	assert.Equal(t, 3, state.AcceptedCount)
	assert.Equal(t, "Selected Sum = 1500", state.Summary().DisplayString)
}

func TestScanner_PrecisionSkips(t *testing.T) {
	settings := DefaultSettings()
	settings.MaxPrecision = 12
	s, err := NewScanner(settings)
	require.NoError(t, err)

	sum, err := s.Summarize(context.Background(), []string{"5 123456789012 1234567890123 7"})
	require.NoError(t, err)

	assert.Equal(t, "Selected Sum = 12", sum.DisplayString)
	assert.Equal(t, 2, sum.SkippedForPrecisionCount)
	assert.Equal(t, []string{"2 numbers ignored due to digit length exceeding 12"}, sum.Notices())
}

func TestScanner_CancelledBetweenTokens(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seen := 0
	s := newTestScanner(t, WithObserver(ObserverFunc(func(_ context.Context, _ int, _ string, _ Result) {
		seen++
		if seen == 2 {
			cancel()
		}
	})))

	state, err := s.Scan(ctx, []string{"1 2 3 4 5"})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, state)
	assert.Equal(t, 2, state.TokenCount)
	assertDecimal(t, "3", &state.Total)
}

func TestScanner_Observers(t *testing.T) {
	var lines []int
	var reasons []Reason
	obs := ObserverFunc(func(_ context.Context, line int, _ string, r Result) {
		lines = append(lines, line)
		reasons = append(reasons, r.Reason)
	})
	s := newTestScanner(t, WithObserver(obs), WithObserver(nil))

	_, err := s.Scan(context.Background(), []string{"1 5x\n17-"})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 1, 2}, lines)
	assert.Equal(t, []Reason{ReasonNone, ReasonLetter, ReasonTrailingDash}, reasons)
}

func TestScanner_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	s := newTestScanner(t, WithTracer(tp.Tracer("test")))

	_, err := s.Scan(context.Background(), []string{scenarioA})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "numscan.Scan", spans[0].Name())

	attrs := map[string]int64{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInt64()
	}
	assert.Equal(t, int64(12), attrs["scan.accepted"])
	assert.Equal(t, int64(4), attrs["scan.negative"])
}

func TestScanner_PartialSumsArePrefixSums(t *testing.T) {
	tokens := strings.Fields(scenarioA)
	s := newTestScanner(t)

	for i := 1; i <= len(tokens); i++ {
		prefix, err := s.Scan(context.Background(), []string{strings.Join(tokens[:i], " ")})
		require.NoError(t, err)
		assert.Equal(t, i, prefix.AcceptedCount)
	}
}
