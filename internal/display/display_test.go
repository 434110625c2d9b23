package display

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fyrsmithlabs/addup/internal/numscan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summarize(t *testing.T, settings numscan.Settings, text string) numscan.Summary {
	t.Helper()
	scanner, err := numscan.NewScanner(settings)
	require.NoError(t, err)
	s, err := scanner.Summarize(context.Background(), []string{text})
	require.NoError(t, err)
	return s
}

func TestPresenter_Summary(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPresenter(&out, &errOut, Options{Color: true})

	require.NoError(t, p.Summary(summarize(t, numscan.DefaultSettings(), "10 -2 -3.5")))

	// Buffers are not terminals, so lipgloss renders plain text.
	assert.Equal(t, "Selected Sum = 4.50\nNote: 2 negative numbers were evaluated and subtracted.\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestPresenter_SummaryNothingFound(t *testing.T) {
	var out bytes.Buffer
	p := NewPresenter(&out, &out, Options{})

	require.NoError(t, p.Summary(summarize(t, numscan.DefaultSettings(), "abc 5x")))
	assert.Equal(t, numscan.NoNumbersMessage+"\n", out.String())
}

func TestPresenter_SummaryPrecisionNotice(t *testing.T) {
	var out bytes.Buffer
	p := NewPresenter(&out, &out, Options{})

	settings := numscan.DefaultSettings()
	settings.MaxPrecision = 5
	require.NoError(t, p.Summary(summarize(t, settings, "12345 7")))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Selected Sum = 7", lines[0])
	assert.Equal(t, "1 numbers ignored due to digit length exceeding 5", lines[1])
}

func TestPresenter_SummaryJSON(t *testing.T) {
	var out bytes.Buffer
	p := NewPresenter(&out, &out, Options{JSON: true})

	require.NoError(t, p.Summary(summarize(t, numscan.DefaultSettings(), "$1,000 -1")))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "Selected Sum = 999", doc["display_string"])
	assert.EqualValues(t, 2, doc["accepted_count"])
	assert.EqualValues(t, 1, doc["negative_count"])
	assert.Len(t, doc["notices"], 1)
}

func TestPresenter_Profile(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPresenter(&out, &errOut, Options{})

	p.Profile(1234567 * time.Nanosecond)
	assert.Equal(t, "Elapsed Time: 1.23 ms\n", errOut.String())
	assert.Empty(t, out.String())
}

func TestPresenter_Checks(t *testing.T) {
	parser, err := numscan.NewParser(numscan.DefaultSettings())
	require.NoError(t, err)

	tokens := []string{"(1,000)", "7*7", "-$5"}
	rows := make([]Check, len(tokens))
	for i, tok := range tokens {
		rows[i] = NewCheck(tok, parser.Parse(tok, nil))
	}

	assert.True(t, rows[0].Accepted)
	assert.Equal(t, "1000", rows[0].Value)
	assert.False(t, rows[1].Accepted)
	assert.True(t, rows[2].Negative)
	assert.Equal(t, "-5", rows[2].Value)

	var out bytes.Buffer
	p := NewPresenter(&out, &out, Options{})
	require.NoError(t, p.Checks(rows))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "(1,000)  ok 1000", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "7*7      rejected "))
	assert.Contains(t, lines[1], "stage")

	out.Reset()
	p = NewPresenter(&out, &out, Options{JSON: true})
	require.NoError(t, p.Checks(rows))
	var decoded []Check
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, rows, decoded)
}

func TestNewCheck_ReducedValue(t *testing.T) {
	parser, err := numscan.NewParser(numscan.DefaultSettings())
	require.NoError(t, err)

	tests := []struct {
		token string
		want  string
	}{
		{"7.---", "7"},
		{"$1,000.--", "1000"},
		{"$1,000,000.--", "1000000"},
		{"2.50", "2.5"},
		{"-40", "-40"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			row := NewCheck(tt.token, parser.Parse(tt.token, nil))
			require.True(t, row.Accepted)
			assert.Equal(t, tt.want, row.Value)
		})
	}
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func TestCopy(t *testing.T) {
	cb := &fakeClipboard{}
	require.NoError(t, Copy(cb, "Selected Sum = 3"))
	assert.Equal(t, "Selected Sum = 3", cb.text)

	boom := errors.New("no display")
	assert.ErrorIs(t, Copy(&fakeClipboard{err: boom}, "x"), boom)
	assert.ErrorIs(t, Copy(nil, "x"), ErrClipboardUnavailable)
}
