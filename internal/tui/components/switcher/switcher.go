// Package switcher picks a visualization by fuzzy-matching its title.
package switcher

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sst/lens/internal/tui/components/modal"
	"github.com/sst/lens/internal/tui/styles"
	"github.com/sst/lens/internal/tui/util"
)

// Item is one choosable visualization.
type Item struct {
	VisualizationID string
	Title           string
}

// SwitchMsg is sent when an item is chosen.
type SwitchMsg struct {
	VisualizationID string
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "previous"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "next"),
	),
	Choose: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "switch"),
	),
}

type switcherCmp struct {
	items    []Item
	active   func() string
	input    textinput.Model
	matches  []Item
	selected int
	width    int
}

// New lists items; active reports the id of the current visualization.
func New(items []Item, active func() string) tea.Model {
	ti := textinput.New()
	ti.Placeholder = "chart type"
	ti.Prompt = "› "
	ti.Focus()
	s := &switcherCmp{items: items, active: active, input: ti}
	s.filter()
	return s
}

func (s *switcherCmp) Init() tea.Cmd {
	return textinput.Blink
}

func (s *switcherCmp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.input.Width = max(msg.Width-4, 10)
		return s, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			s.selected = util.Wrap(s.selected, -1, len(s.matches))
			return s, nil
		case key.Matches(msg, keys.Down):
			s.selected = util.Wrap(s.selected, 1, len(s.matches))
			return s, nil
		case key.Matches(msg, keys.Choose):
			if len(s.matches) == 0 {
				return s, nil
			}
			chosen := s.matches[s.selected]
			return s, tea.Batch(
				util.CmdHandler(modal.CloseMsg{}),
				util.CmdHandler(SwitchMsg{VisualizationID: chosen.VisualizationID}),
			)
		}
	}

	var cmd tea.Cmd
	prev := s.input.Value()
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() != prev {
		s.filter()
	}
	return s, cmd
}

// filter ranks the items against the query. An empty query keeps the
// registration order.
func (s *switcherCmp) filter() {
	s.selected = 0
	query := strings.TrimSpace(s.input.Value())
	if query == "" {
		s.matches = append([]Item(nil), s.items...)
		return
	}
	titles := make([]string, len(s.items))
	for i, it := range s.items {
		titles[i] = it.Title
	}
	ranks := fuzzy.RankFindFold(query, titles)
	sort.Stable(ranks)
	s.matches = s.matches[:0]
	for _, r := range ranks {
		s.matches = append(s.matches, s.items[r.OriginalIndex])
	}
}

func (s *switcherCmp) View() string {
	t := styles.CurrentTheme()
	lines := []string{s.input.View(), ""}
	if len(s.matches) == 0 {
		lines = append(lines, styles.Muted().Render("no matching chart type"))
	}
	for i, it := range s.matches {
		label := it.Title
		if s.active != nil && it.VisualizationID == s.active() {
			label += styles.Muted().Render(" (current)")
		}
		style := styles.Padded()
		if i == s.selected {
			style = style.Foreground(t.Background).Background(t.Primary)
		}
		lines = append(lines, style.Render(label))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
