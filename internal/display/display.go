// Package display presents scan summaries on a terminal or as JSON and
// offers the display string to the system clipboard.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/apd/v3"
	"github.com/fyrsmithlabs/addup/internal/numscan"
)

// Options controls a Presenter.
type Options struct {
	JSON  bool
	Color bool
}

// Presenter writes results to Out and side notes (profiling) to Err.
type Presenter struct {
	out  io.Writer
	err  io.Writer
	opts Options

	sumStyle    lipgloss.Style
	emptyStyle  lipgloss.Style
	noticeStyle lipgloss.Style
	okStyle     lipgloss.Style
	rejectStyle lipgloss.Style
	dimStyle    lipgloss.Style
}

// NewPresenter builds a presenter. Styling is dropped automatically when out
// is not a terminal.
func NewPresenter(out, errOut io.Writer, opts Options) *Presenter {
	p := &Presenter{out: out, err: errOut, opts: opts}

	r := lipgloss.NewRenderer(out)
	if opts.Color {
		p.sumStyle = r.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
		p.emptyStyle = r.NewStyle().Foreground(lipgloss.Color("245"))
		p.noticeStyle = r.NewStyle().Foreground(lipgloss.Color("226"))
		p.okStyle = r.NewStyle().Foreground(lipgloss.Color("46"))
		p.rejectStyle = r.NewStyle().Foreground(lipgloss.Color("196"))
		p.dimStyle = r.NewStyle().Foreground(lipgloss.Color("245"))
	} else {
		plain := r.NewStyle()
		p.sumStyle, p.emptyStyle, p.noticeStyle = plain, plain, plain
		p.okStyle, p.rejectStyle, p.dimStyle = plain, plain, plain
	}
	return p
}

// jsonSummary is the --json document.
type jsonSummary struct {
	numscan.Summary
	Notices []string `json:"notices,omitempty"`
}

// Summary prints the display string followed by any notices.
func (p *Presenter) Summary(s numscan.Summary) error {
	if p.opts.JSON {
		return p.writeJSON(jsonSummary{Summary: s, Notices: s.Notices()})
	}

	style := p.sumStyle
	if s.AcceptedCount == 0 {
		style = p.emptyStyle
	}
	var b strings.Builder
	b.WriteString(style.Render(s.DisplayString))
	b.WriteByte('\n')
	for _, n := range s.Notices() {
		b.WriteString(p.noticeStyle.Render(n))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(p.out, b.String())
	return err
}

// Profile reports elapsed wall time on the error stream.
func (p *Presenter) Profile(elapsed time.Duration) {
	fmt.Fprintf(p.err, "Elapsed Time: %.2f ms\n", float64(elapsed)/float64(time.Millisecond))
}

// Check is one row of `addup check` output.
type Check struct {
	Token    string         `json:"token"`
	Accepted bool           `json:"accepted"`
	Value    string         `json:"value,omitempty"`
	Negative bool           `json:"negative,omitempty"`
	Stage    numscan.Stage  `json:"stage"`
	Reason   numscan.Reason `json:"reason,omitempty"`
	Cleaned  string         `json:"cleaned"`
}

// NewCheck converts a parse result into a row.
func NewCheck(token string, r numscan.Result) Check {
	c := Check{
		Token:    token,
		Accepted: r.Accepted(),
		Negative: r.Negative,
		Stage:    r.Stage,
		Reason:   r.Reason,
		Cleaned:  r.Cleaned,
	}
	if r.Value != nil {
		var v apd.Decimal
		v.Reduce(r.Value)
		c.Value = v.Text('f')
	}
	return c
}

// Checks prints one line per token: accepted values, or the stage and
// reason that refused the token.
func (p *Presenter) Checks(rows []Check) error {
	if p.opts.JSON {
		return p.writeJSON(rows)
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r.Token))
	}

	var b strings.Builder
	for _, r := range rows {
		token := r.Token + strings.Repeat(" ", width-len(r.Token))
		if r.Accepted {
			fmt.Fprintf(&b, "%s  %s %s\n", token, p.okStyle.Render("ok"), r.Value)
			continue
		}
		fmt.Fprintf(&b, "%s  %s %s %s\n", token,
			p.rejectStyle.Render("rejected"),
			r.Reason,
			p.dimStyle.Render(fmt.Sprintf("(stage %s, saw %q)", r.Stage, r.Cleaned)))
	}
	_, err := io.WriteString(p.out, b.String())
	return err
}

func (p *Presenter) writeJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
