// Package panel draws the suggestion controller as a row of clickable cards.
package panel

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/sst/lens/internal/lens"
	"github.com/sst/lens/internal/status"
	"github.com/sst/lens/internal/suggestion"
	"github.com/sst/lens/internal/tui/styles"
	"github.com/sst/lens/internal/tui/util"
)

const (
	zonePrefix = "suggestion-card-"
	cardWidth  = 30
)

type KeyMap struct {
	Prev   key.Binding
	Next   key.Binding
	Select key.Binding
	Back   key.Binding
	Apply  key.Binding
	Copy   key.Binding
}

var Keys = KeyMap{
	Prev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "previous suggestion"),
	),
	Next: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "next suggestion"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "preview suggestion"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back to current"),
	),
	Apply: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "apply preview"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy expression"),
	),
}

// Bindings lists the panel keys for the help modal.
func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Select, k.Back, k.Apply, k.Copy}
}

// RefreshMsg asks the panel to re-read the controller.
type RefreshMsg struct{}

type Panel struct {
	ctrl       *suggestion.Controller
	dispatcher lens.Dispatcher
	status     status.Service
	zones      *zone.Manager
	copy       func(string) error

	previews []suggestion.Preview
	focus    int
	width    int
}

type Option func(*Panel)

func WithStatus(s status.Service) Option {
	return func(p *Panel) {
		p.status = s
	}
}

func WithZoneManager(z *zone.Manager) Option {
	return func(p *Panel) {
		p.zones = z
	}
}

// WithClipboard replaces the system clipboard.
func WithClipboard(write func(string) error) Option {
	return func(p *Panel) {
		p.copy = write
	}
}

// New wraps ctrl. Commits go straight to dispatcher; clicks go through ctrl.
func New(ctrl *suggestion.Controller, dispatcher lens.Dispatcher, opts ...Option) *Panel {
	p := &Panel{
		ctrl:       ctrl,
		dispatcher: dispatcher,
		zones:      zone.DefaultManager,
		copy:       clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.Refresh()
	return p
}

func (p *Panel) Init() tea.Cmd {
	return nil
}

// SetProps hands the next host state to the controller and redraws.
func (p *Panel) SetProps(props suggestion.Props) {
	p.ctrl.Update(props)
	p.Refresh()
}

// Refresh re-renders every preview.
func (p *Panel) Refresh() {
	p.previews = p.ctrl.Previews()
	p.focus = util.Clamp(p.focus, 0, max(len(p.previews)-1, 0))
}

func (p *Panel) Previews() []suggestion.Preview {
	return p.previews
}

func (p *Panel) Focus() int {
	return p.focus
}

// Click selects the candidate at index, as a mouse click on its card does.
func (p *Panel) Click(index int) {
	p.focus = util.Clamp(index, 0, max(len(p.previews)-1, 0))
	p.ctrl.Select(index)
	p.Refresh()
}

func (p *Panel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
	case RefreshMsg:
		p.Refresh()
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return p, nil
		}
		if p.zones == nil {
			return p, nil
		}
		for i := range p.previews {
			if z := p.zones.Get(zoneID(i)); z != nil && z.InBounds(msg) {
				p.Click(i)
				break
			}
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, Keys.Prev):
			p.focus = util.Wrap(p.focus, -1, len(p.previews))
		case key.Matches(msg, Keys.Next):
			p.focus = util.Wrap(p.focus, 1, len(p.previews))
		case key.Matches(msg, Keys.Select):
			p.Click(p.focus)
		case key.Matches(msg, Keys.Back):
			p.Click(0)
		case key.Matches(msg, Keys.Apply):
			p.apply()
		case key.Matches(msg, Keys.Copy):
			p.copyFocused()
		}
	}
	return p, nil
}

func (p *Panel) apply() {
	if !p.ctrl.IsStaged() {
		p.info("nothing to apply")
		return
	}
	p.dispatcher.Dispatch(lens.SubmitSuggestion{})
}

func (p *Panel) copyFocused() {
	if p.focus >= len(p.previews) {
		return
	}
	pv := p.previews[p.focus]
	if pv.Expression == "" {
		p.info(pv.Title + " has no expression")
		return
	}
	if err := p.copy(pv.Expression); err != nil {
		if p.status != nil {
			p.status.Errorf(err, "copying %s", pv.Title)
		}
		return
	}
	p.info("copied " + pv.Title + " expression")
}

func (p *Panel) info(msg string) {
	if p.status != nil {
		p.status.Info(msg)
	}
}

func (p *Panel) View() string {
	cards := make([]string, 0, len(p.previews))
	for i, pv := range p.previews {
		card := p.card(i, pv)
		if p.zones != nil {
			card = p.zones.Mark(zoneID(i), card)
		}
		cards = append(cards, card)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if diff := StagedDiff(p.ctrl.Props()); diff != "" {
		return lipgloss.JoinVertical(lipgloss.Left, row, renderDiff(diff))
	}
	return row
}

func (p *Panel) card(i int, pv suggestion.Preview) string {
	inner := cardWidth - 4
	title := pv.Title
	if runewidth.StringWidth(title) > inner-2 {
		title = runewidth.Truncate(title, inner-2, "…")
	}
	marker := "  "
	if pv.Selected {
		marker = styles.StagedIcon + " "
	}
	head := styles.Bold().Render(marker + title)

	var body string
	switch {
	case pv.Rendering():
		body = pv.Rendered
	case pv.ShowIcon():
		body = styles.BaseStyle().Foreground(styles.CurrentTheme().Secondary).Render(styles.Glyph(pv.Icon))
	default:
		body = styles.Muted().Render("no preview")
	}
	return styles.Card(i == p.focus, pv.Selected).
		Width(inner).
		Render(lipgloss.JoinVertical(lipgloss.Left, head, body))
}

func zoneID(i int) string {
	return fmt.Sprintf("%s%d", zonePrefix, i)
}

// StagedDiff is the unified diff from the committed visualization expression
// to the previewed one, "" when nothing is staged or nothing differs.
func StagedDiff(props suggestion.Props) string {
	sp := props.StagedPreview
	if sp == nil {
		return ""
	}
	before := visExpression(props.VisualizationMap, sp.Visualization.ActiveID, sp.Visualization.State)
	after := visExpression(props.VisualizationMap, props.ActiveVisualizationID, props.VisualizationState)
	if before == after {
		return ""
	}
	return udiff.Unified("current", "preview", before, after)
}

func visExpression(visualizations map[string]lens.Visualization, id string, state lens.State) string {
	vis, ok := visualizations[id]
	if !ok {
		return ""
	}
	expr := vis.ToExpression(state)
	if expr != "" && !strings.HasSuffix(expr, "\n") {
		expr += "\n"
	}
	return expr
}

func renderDiff(diff string) string {
	t := styles.CurrentTheme()
	lines := strings.Split(strings.TrimSuffix(diff, "\n"), "\n")
	for i, l := range lines {
		style := styles.Muted()
		switch {
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
			style = styles.Bold()
		case strings.HasPrefix(l, "+"):
			style = styles.BaseStyle().Foreground(t.Success)
		case strings.HasPrefix(l, "-"):
			style = styles.BaseStyle().Foreground(t.Error)
		}
		lines[i] = style.Render(l)
	}
	return strings.Join(lines, "\n")
}
