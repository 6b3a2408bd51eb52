package core

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sst/lens/internal/lens"
	"github.com/sst/lens/internal/pubsub"
	"github.com/sst/lens/internal/status"
	"github.com/sst/lens/internal/tui/styles"
)

type StatusCmp interface {
	tea.Model
	SetHelpWidgetMsg(string)
}

type statusCmp struct {
	statusMessages []status.StatusMessage
	width          int
	helpText       string
	title          string
	staged         bool
}

// clearMessageCmd is a command that clears status messages after a timeout
func (m *statusCmp) clearMessageCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return statusCleanupMsg{time: t}
	})
}

// statusCleanupMsg is a message that triggers cleanup of expired status messages
type statusCleanupMsg struct {
	time time.Time
}

func (m *statusCmp) Init() tea.Cmd {
	return m.clearMessageCmd()
}

func (m *statusCmp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case pubsub.Event[lens.EditorState]:
		m.title = msg.Payload.Title
		m.staged = msg.Payload.IsStaged()
	case pubsub.Event[status.StatusMessage]:
		m.statusMessages = append(m.statusMessages, msg.Payload)
	case statusCleanupMsg:
		var active []status.StatusMessage
		for _, sm := range m.statusMessages {
			if !sm.Expired(msg.time) {
				active = append(active, sm)
			}
		}
		m.statusMessages = active
		return m, m.clearMessageCmd()
	}
	return m, nil
}

func (m *statusCmp) helpWidget() string {
	t := styles.CurrentTheme()
	helpText := m.helpText
	if helpText == "" {
		helpText = "? help"
	}
	return styles.Padded().
		Background(t.TextMuted).
		Foreground(t.Background).
		Bold(true).
		Render(helpText)
}

func (m *statusCmp) stateWidget() string {
	t := styles.CurrentTheme()
	label := m.title
	if label == "" {
		label = styles.LensIcon + " lens"
	}
	style := styles.Padded().Background(t.Secondary).Foreground(t.Background)
	if m.staged {
		label = styles.StagedIcon + " previewing · " + label
		style = style.Background(t.Accent)
	}
	return style.Render(label)
}

func (m *statusCmp) View() string {
	t := styles.CurrentTheme()
	help := m.helpWidget()
	state := m.stateWidget()

	statusWidth := max(0, m.width-lipgloss.Width(help)-lipgloss.Width(state))

	if len(m.statusMessages) == 0 {
		return help + styles.Padded().
			Background(t.Surface).
			Width(statusWidth).
			Render("") + state
	}

	sm := m.statusMessages[len(m.statusMessages)-1]
	infoStyle := styles.Padded().
		Foreground(t.Background).
		Width(statusWidth)

	icon := styles.InfoIcon
	switch sm.Level {
	case status.LevelInfo:
		infoStyle = infoStyle.Background(t.Info)
	case status.LevelWarn:
		icon = styles.WarningIcon
		infoStyle = infoStyle.Background(t.Warning)
	case status.LevelError:
		icon = styles.ErrorIcon
		infoStyle = infoStyle.Background(t.Error)
	case status.LevelDebug:
		infoStyle = infoStyle.Background(t.TextMuted)
	}

	text := icon + " " + sm.Message
	if avail := statusWidth - 2; avail > 0 && runewidth.StringWidth(text) > avail {
		text = runewidth.Truncate(text, avail, "…")
	}
	return help + infoStyle.Render(text) + state
}

func (m *statusCmp) SetHelpWidgetMsg(s string) {
	m.helpText = s
}

func NewStatusCmp() StatusCmp {
	return &statusCmp{}
}
