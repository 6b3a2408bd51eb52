// Package modal is an on-demand overlay. Its content model is built the
// first time the modal opens and only sees messages while it is open.
package modal

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sst/lens/internal/tui/layout"
	"github.com/sst/lens/internal/tui/styles"
)

// CloseMsg asks the open modal to close.
type CloseMsg struct{}

var closeKey = key.NewBinding(
	key.WithKeys("esc"),
	key.WithHelp("esc", "close"),
)

// Toggle is a lazy-mount modal: a content model behind an open flag.
type Toggle struct {
	mount   func() tea.Model
	content tea.Model
	open    bool

	title     string
	maxWidth  int
	width     int
	height    int
	escCloses bool
}

type Option func(*Toggle)

func WithTitle(title string) Option {
	return func(t *Toggle) {
		t.title = title
	}
}

func WithMaxWidth(width int) Option {
	return func(t *Toggle) {
		t.maxWidth = width
	}
}

// WithEscapeToClose makes esc close the modal before the content sees it.
func WithEscapeToClose(enabled bool) Option {
	return func(t *Toggle) {
		t.escCloses = enabled
	}
}

// New returns a closed modal. mount builds the content on first Open.
func New(mount func() tea.Model, opts ...Option) *Toggle {
	t := &Toggle{mount: mount, escCloses: true}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Open shows the modal, mounting its content on first use. The content is
// resized to the last known window size on every open.
func (t *Toggle) Open() tea.Cmd {
	t.open = true
	var cmds []tea.Cmd
	if t.content == nil {
		t.content = t.mount()
		cmds = append(cmds, t.content.Init())
	}
	if t.width > 0 {
		var cmd tea.Cmd
		t.content, cmd = t.content.Update(tea.WindowSizeMsg{Width: t.contentWidth(), Height: t.height})
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (t *Toggle) Close() {
	t.open = false
}

func (t *Toggle) IsOpen() bool {
	return t.open
}

// Content is the mounted content model, nil before the first Open.
func (t *Toggle) Content() tea.Model {
	return t.content
}

// Update forwards msg to the content while the modal is open. Window sizes
// are remembered while closed and applied on the next Open.
func (t *Toggle) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width, t.height = msg.Width, msg.Height
		if !t.open || t.content == nil {
			return nil
		}
		var cmd tea.Cmd
		t.content, cmd = t.content.Update(tea.WindowSizeMsg{Width: t.contentWidth(), Height: msg.Height})
		return cmd
	case CloseMsg:
		t.Close()
		return nil
	case tea.KeyMsg:
		if t.open && t.escCloses && key.Matches(msg, closeKey) {
			t.Close()
			return nil
		}
	}
	if !t.open || t.content == nil {
		return nil
	}
	var cmd tea.Cmd
	t.content, cmd = t.content.Update(msg)
	return cmd
}

// View is the framed content, "" while closed.
func (t *Toggle) View() string {
	if !t.open || t.content == nil {
		return ""
	}
	body := t.content.View()
	if t.title != "" {
		title := styles.Bold().Foreground(styles.CurrentTheme().Primary).Render(t.title)
		body = lipgloss.JoinVertical(lipgloss.Left, title, "", body)
	}
	style := styles.Modal()
	if w := t.contentWidth(); w > 0 {
		style = style.Width(w + style.GetHorizontalPadding())
	}
	return style.Render(body)
}

// Render draws the modal centered over background, or background alone
// while closed.
func (t *Toggle) Render(background string) string {
	view := t.View()
	if view == "" {
		return background
	}
	return layout.PlaceCenter(view, background)
}

func (t *Toggle) contentWidth() int {
	w := t.width - 8
	if t.maxWidth > 0 && (w <= 0 || w > t.maxWidth) {
		w = t.maxWidth
	}
	return max(w, 0)
}
