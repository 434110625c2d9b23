// Package live is an interactive terminal editor that re-sums its text on
// every edit.
package live

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/addup/internal/display"
	"github.com/fyrsmithlabs/addup/internal/numscan"
)

const (
	sparklineHeight = 3
	minWidth        = 20
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	sumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	sparklineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)
)

// Model is the bubbletea model behind `addup live`.
type Model struct {
	editor    textarea.Model
	settings  numscan.Settings
	clipboard display.Clipboard

	text     string
	summary  numscan.Summary
	running  []float64
	status   string
	err      error
	width    int
	quitting bool
}

// NewModel builds an editor that scans with settings. cb may be nil, which
// disables copying.
func NewModel(settings numscan.Settings, cb display.Clipboard) (Model, error) {
	if err := settings.Validate(); err != nil {
		return Model{}, err
	}

	editor := textarea.New()
	editor.Placeholder = "Paste or type text containing numbers..."
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.SetHeight(10)
	editor.Focus()

	m := Model{
		editor:    editor,
		settings:  settings,
		clipboard: cb,
		width:     80,
	}
	m.rescan()
	return m, nil
}

// Summary returns the summary of the current text.
func (m Model) Summary() numscan.Summary {
	return m.summary
}

// RunningTotals returns the cumulative total after each line.
func (m Model) RunningTotals() []float64 {
	return m.running
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "ctrl+y":
			m.copyResult()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = max(msg.Width, minWidth)
		m.editor.SetWidth(m.width - 2)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if m.editor.Value() != m.text {
		m.status = ""
		m.rescan()
	}
	return m, cmd
}

func (m *Model) copyResult() {
	if err := display.Copy(m.clipboard, m.summary.DisplayString); err != nil {
		m.status = errorStyle.Render("copy failed: " + err.Error())
		return
	}
	m.status = dimStyle.Render("copied")
}

// rescan sums the editor text and rebuilds the per-line running totals.
func (m *Model) rescan() {
	m.text = m.editor.Value()

	lines := strings.Count(strings.TrimSpace(m.text), "\n") + 1
	running := make([]float64, lines)
	var total float64
	last := 0
	track := numscan.ObserverFunc(func(_ context.Context, line int, _ string, r numscan.Result) {
		if !r.Accepted() {
			return
		}
		for ; last < line-1; last++ {
			running[last] = total
		}
		if f, err := r.Value.Float64(); err == nil {
			total += f
		}
		running[line-1] = total
	})

	scanner, err := numscan.NewScanner(m.settings, numscan.WithObserver(track))
	if err != nil {
		m.err = err
		return
	}
	summary, err := scanner.Summarize(context.Background(), []string{m.text})
	if err != nil {
		m.err = err
		return
	}
	for ; last < lines; last++ {
		running[last] = total
	}

	m.err = nil
	m.summary = summary
	m.running = running
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("addup live"))
	b.WriteString("\n\n")
	b.WriteString(m.editor.View())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString(sumStyle.Render(m.summary.DisplayString))
		b.WriteString("\n")
		for _, n := range m.summary.Notices() {
			b.WriteString(noticeStyle.Render(n))
			b.WriteString("\n")
		}
		if m.summary.AcceptedCount > 0 && len(m.running) > 1 {
			b.WriteString("\n")
			b.WriteString(m.sparkline())
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("\n%s copy  %s quit  (%d tokens, %d lines)",
		footerKeyStyle.Render("ctrl+y"), footerKeyStyle.Render("esc"),
		m.summary.TokenCount, m.summary.LineCount)))
	return b.String()
}

func (m Model) sparkline() string {
	spark := sparkline.New(max(m.width-2, minWidth), sparklineHeight)
	for _, v := range m.running {
		spark.Push(v)
	}
	spark.Draw()
	return sparklineStyle.Render(spark.View())
}

// Run shows the editor on in/out until the user quits or ctx is done and
// returns the summary of the final text.
func Run(ctx context.Context, m Model, in io.Reader, out io.Writer) (numscan.Summary, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return numscan.Summary{}, fmt.Errorf("live editor: %w", err)
	}
	if fm, ok := final.(Model); ok {
		return fm.Summary(), nil
	}
	return m.Summary(), nil
}
