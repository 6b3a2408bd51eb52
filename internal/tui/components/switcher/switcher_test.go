package switcher

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sst/lens/internal/tui/components/modal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var items = []Item{
	{VisualizationID: "lnsXY", Title: "XY chart"},
	{VisualizationID: "lnsDatatable", Title: "Table"},
	{VisualizationID: "lnsMetric", Title: "Metric"},
}

func active() string { return "lnsXY" }

func typeText(m tea.Model, s string) tea.Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestEmptyQueryListsEverything(t *testing.T) {
	t.Parallel()
	s := New(items, active).(*switcherCmp)
	assert.Equal(t, items, s.matches)
	assert.Contains(t, s.View(), "(current)")
}

func TestFuzzyFilter(t *testing.T) {
	t.Parallel()
	s := typeText(New(items, active), "met").(*switcherCmp)
	require.Len(t, s.matches, 1)
	assert.Equal(t, "lnsMetric", s.matches[0].VisualizationID)

	s = typeText(New(items, active), "zzz").(*switcherCmp)
	assert.Empty(t, s.matches)
	assert.Contains(t, s.View(), "no matching chart type")
}

func TestChooseClosesAndSwitches(t *testing.T) {
	t.Parallel()
	m := New(items, active)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	msgs := collect(cmd)
	assert.Contains(t, msgs, modal.CloseMsg{})
	assert.Contains(t, msgs, SwitchMsg{VisualizationID: "lnsDatatable"})
}

func TestCursorWraps(t *testing.T) {
	t.Parallel()
	m := New(items, active)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 2, m.(*switcherCmp).selected)
}

func TestChooseWithoutMatchesDoesNothing(t *testing.T) {
	t.Parallel()
	m := typeText(New(items, active), "zzz")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}
