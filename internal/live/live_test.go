package live

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/addup/internal/numscan"
)

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

func newTestModel(t *testing.T, cb *fakeClipboard) Model {
	t.Helper()
	m, err := NewModel(numscan.DefaultSettings(), cb)
	require.NoError(t, err)
	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return updated.(Model)
}

func pressEnter(m Model) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model)
}

func TestNewModel(t *testing.T) {
	m := newTestModel(t, nil)
	assert.Equal(t, numscan.NoNumbersMessage, m.Summary().DisplayString)
	assert.Equal(t, 0, m.Summary().AcceptedCount)
	assert.NotNil(t, m.Init())
}

func TestNewModel_InvalidSettings(t *testing.T) {
	settings := numscan.DefaultSettings()
	settings.MaxPrecision = 1
	_, err := NewModel(settings, nil)
	require.ErrorIs(t, err, numscan.ErrInvalidSettings)
}

func TestModel_RescansOnEdit(t *testing.T) {
	m := newTestModel(t, nil)

	m = typeText(t, m, "10 -2")
	assert.Equal(t, "Selected Sum = 8", m.Summary().DisplayString)
	assert.Equal(t, 1, m.Summary().NegativeCount)

	m = pressEnter(m)
	m = typeText(t, m, "-3.5")
	assert.Equal(t, "Selected Sum = 4.50", m.Summary().DisplayString)
	assert.Equal(t, []float64{8, 4.5}, m.RunningTotals())

	view := m.View()
	assert.Contains(t, view, "Selected Sum = 4.50")
	assert.Contains(t, view, "Note: 2 negative numbers were evaluated and subtracted.")
}

func TestModel_RunningTotalsCarryAcrossEmptyLines(t *testing.T) {
	m := newTestModel(t, nil)
	m = typeText(t, m, "5")
	m = pressEnter(m)
	m = typeText(t, m, "words only")
	m = pressEnter(m)
	m = typeText(t, m, "$1,000")

	assert.Equal(t, []float64{5, 5, 1005}, m.RunningTotals())
	assert.Equal(t, 3, m.Summary().LineCount)
}

func TestModel_CopyResult(t *testing.T) {
	cb := &fakeClipboard{}
	m := newTestModel(t, cb)
	m = typeText(t, m, "2 2")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	m = updated.(Model)
	assert.Equal(t, "Selected Sum = 4", cb.text)
	assert.Contains(t, m.View(), "copied")

	cb.err = errors.New("no clipboard")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Contains(t, updated.(Model).View(), "copy failed")
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, nil)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}

func TestModel_WindowResize(t *testing.T) {
	m := newTestModel(t, nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 10, Height: 20})
	assert.Equal(t, minWidth, updated.(Model).width)
}
