package tui

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/sst/lens/internal/config"
	"github.com/sst/lens/internal/datasource/table"
	"github.com/sst/lens/internal/expression"
	"github.com/sst/lens/internal/frame"
	"github.com/sst/lens/internal/history"
	"github.com/sst/lens/internal/lens"
	"github.com/sst/lens/internal/logging"
	"github.com/sst/lens/internal/pubsub"
	"github.com/sst/lens/internal/status"
	"github.com/sst/lens/internal/suggestion"
	"github.com/sst/lens/internal/telemetry"
	"github.com/sst/lens/internal/tui/components/core"
	"github.com/sst/lens/internal/tui/components/help"
	"github.com/sst/lens/internal/tui/components/logs"
	"github.com/sst/lens/internal/tui/components/modal"
	"github.com/sst/lens/internal/tui/components/panel"
	"github.com/sst/lens/internal/tui/components/preview"
	"github.com/sst/lens/internal/tui/components/switcher"
	"github.com/sst/lens/internal/tui/components/versions"
	"github.com/sst/lens/internal/tui/styles"
	"github.com/sst/lens/internal/workspace"
)

type keyMap struct {
	Logs        key.Binding
	Quit        key.Binding
	Help        key.Binding
	Switch      key.Binding
	History     key.Binding
	SwitchTheme key.Binding
}

var keys = keyMap{
	Logs: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "logs"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Switch: key.NewBinding(
		key.WithKeys("ctrl+k", "s"),
		key.WithHelp("s", "switch chart type"),
	),
	History: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "history"),
	),
	SwitchTheme: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "switch theme"),
	),
}

// WorkspaceChangedMsg is sent when the workspace file changed on disk.
type WorkspaceChangedMsg struct {
	Workspace *workspace.Workspace
	Err       error
}

// Deps is what the app model drives.
type Deps struct {
	Store          *frame.Store
	Status         status.Service
	Telemetry      telemetry.Tracker
	History        history.Service
	Logs           logging.Service
	Datasources    map[string]lens.Datasource
	Visualizations map[string]lens.Visualization
	MaxSuggestions int
	Frame          lens.FrameContext
}

type appModel struct {
	width, height int
	deps          Deps

	panel    *panel.Panel
	status   core.StatusCmp
	main     *preview.Renderer
	help     *modal.Toggle
	switcher *modal.Toggle
	history  *modal.Toggle
	logs     *modal.Toggle
}

func (a *appModel) modals() []*modal.Toggle {
	return []*modal.Toggle{a.help, a.switcher, a.history, a.logs}
}

func (a *appModel) openModal() *modal.Toggle {
	for _, m := range a.modals() {
		if m.IsOpen() {
			return m
		}
	}
	return nil
}

func (a *appModel) Init() tea.Cmd {
	return tea.Batch(a.status.Init(), a.panel.Init())
}

func (a *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		msg.Height -= 1 // status bar
		a.width, a.height = msg.Width, msg.Height
		a.main = preview.New(preview.WithSize(max(msg.Width-6, 10), 8))

		s, _ := a.status.Update(msg)
		a.status = s.(core.StatusCmp)
		a.panel.Update(msg)
		for _, m := range a.modals() {
			cmds = append(cmds, m.Update(msg))
		}
		return a, tea.Batch(cmds...)

	case pubsub.Event[lens.EditorState]:
		a.panel.SetProps(a.props(msg.Payload))
		s, cmd := a.status.Update(msg)
		a.status = s.(core.StatusCmp)
		return a, cmd

	case pubsub.Event[status.StatusMessage]:
		s, cmd := a.status.Update(msg)
		a.status = s.(core.StatusCmp)
		return a, cmd

	case pubsub.Event[history.Version]:
		return a, a.history.Update(msg)

	case pubsub.Event[logging.Log]:
		return a, a.logs.Update(msg)

	case WorkspaceChangedMsg:
		a.workspaceChanged(msg)
		return a, nil

	case switcher.SwitchMsg:
		action, err := frame.SwitchTo(a.deps.Store.State(), a.deps.Datasources, a.deps.Visualizations, msg.VisualizationID)
		if err != nil {
			a.deps.Status.Errorf(err, "switching chart type")
			return a, nil
		}
		a.deps.Telemetry.TrackUIEvent("chart_switched")
		a.deps.Store.Dispatch(action)
		return a, nil

	case versions.RestoreMsg:
		st, err := msg.Version.Restore(a.deps.Datasources, a.deps.Visualizations)
		if err != nil {
			a.deps.Status.Errorf(err, "restoring version %d", msg.Version.Number)
			return a, nil
		}
		a.deps.Store.Dispatch(lens.Reset{State: st})
		a.deps.Status.Info(fmt.Sprintf("restored version %d", msg.Version.Number))
		return a, nil

	case modal.CloseMsg:
		if m := a.openModal(); m != nil {
			m.Close()
		}
		return a, nil

	case tea.MouseMsg:
		if a.openModal() != nil {
			return a, nil
		}
		_, cmd := a.panel.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) && msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if m := a.openModal(); m != nil {
			return a, m.Update(msg)
		}
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			return a, a.help.Open()
		case key.Matches(msg, keys.Switch):
			return a, a.switcher.Open()
		case key.Matches(msg, keys.History):
			return a, a.history.Open()
		case key.Matches(msg, keys.Logs):
			return a, a.logs.Open()
		case key.Matches(msg, keys.SwitchTheme):
			a.switchTheme()
			return a, nil
		}
		_, cmd := a.panel.Update(msg)
		return a, cmd
	}

	if m := a.openModal(); m != nil {
		cmds = append(cmds, m.Update(msg))
	}
	s, cmd := a.status.Update(msg)
	a.status = s.(core.StatusCmp)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a *appModel) props(st lens.EditorState) suggestion.Props {
	return suggestion.PropsFromState(st, a.deps.Datasources, a.deps.Visualizations, a.deps.Frame)
}

func (a *appModel) workspaceChanged(msg WorkspaceChangedMsg) {
	if msg.Err != nil {
		a.deps.Status.Errorf(msg.Err, "reloading workspace")
		return
	}
	a.deps.Store.Dispatch(lens.UpdateDatasourceState{
		DatasourceID:       table.ID,
		State:              *msg.Workspace.Datasources.Table,
		ClearStagedPreview: true,
	})
	a.deps.Status.Info("workspace reloaded")
}

func (a *appModel) switchTheme() {
	next := "light"
	if styles.CurrentTheme().Name == "light" {
		next = "dark"
	}
	styles.SetTheme(next)
	if err := config.UpdateTheme(next); err != nil {
		slog.Warn("persisting theme", "error", err)
	}
	a.panel.Refresh()
	a.deps.Status.Info("theme: " + next)
}

func (a *appModel) header(st lens.EditorState) string {
	t := styles.CurrentTheme()
	title := st.Title
	if title == "" {
		title = "untitled"
	}
	head := styles.Bold().Foreground(t.Primary).Render(styles.LensIcon + " " + title)

	ids := make([]string, 0, len(st.DatasourceStates))
	for id := range st.DatasourceStates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var layers []string
	for _, id := range ids {
		ds, ok := a.deps.Datasources[id]
		if !ok {
			continue
		}
		for _, l := range ds.GetLayers(st.DatasourceStates[id].State) {
			layers = append(layers, id+"/"+l)
		}
	}
	if len(layers) > 0 {
		head += styles.Muted().Render("  layers: " + strings.Join(layers, ", "))
	}
	return head
}

// committed renders the full expression of the active visualization.
func (a *appModel) committed(st lens.EditorState) string {
	t := styles.CurrentTheme()
	vis, ok := a.deps.Visualizations[st.Visualization.ActiveID]
	if !ok {
		return styles.Muted().Render("no visualization")
	}
	desc := vis.Description(st.Visualization.State)
	label := styles.Bold().Render(desc.Label)

	tables := expression.DatasourceTables(a.deps.Datasources, st.DatasourceStates, expression.LayerFilter{})
	expr, err := expression.Assemble(vis.ToExpression(st.Visualization.State), tables)
	body := styles.BaseStyle().Foreground(t.Secondary).Render(styles.Glyph(desc.Icon))
	if err != nil {
		body = styles.BaseStyle().Foreground(t.Error).Render(err.Error())
	} else if expr != "" && a.main != nil {
		if out, rerr := a.main.Render(suggestion.RenderRequest{Expression: expr, Frame: a.deps.Frame}); rerr == nil {
			body = out
		}
	}
	return styles.Card(false, st.IsStaged()).
		Width(max(a.width-4, 20)).
		Render(lipgloss.JoinVertical(lipgloss.Left, label, body))
}

func (a *appModel) View() string {
	st := a.deps.Store.State()
	body := lipgloss.JoinVertical(lipgloss.Left,
		a.header(st),
		a.committed(st),
		styles.Muted().Render("suggestions"),
		a.panel.View(),
	)
	if a.height > 0 {
		body = lipgloss.NewStyle().Height(a.height).MaxHeight(a.height).Render(body)
	}
	for _, m := range a.modals() {
		body = m.Render(body)
	}
	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, body, a.status.View()))
}

// New builds the app model. The panel starts from the store's current state.
func New(deps Deps) tea.Model {
	if deps.Telemetry == nil {
		deps.Telemetry = telemetry.Nop{}
	}
	if deps.Status == nil {
		deps.Status = status.NewService()
	}
	ctrl := suggestion.New(
		suggestion.PropsFromState(deps.Store.State(), deps.Datasources, deps.Visualizations, deps.Frame),
		deps.Store,
		suggestion.WithRenderer(preview.New()),
		suggestion.WithTracker(deps.Telemetry),
		suggestion.WithMaxSuggestions(deps.MaxSuggestions),
	)

	items := make([]switcher.Item, 0, len(deps.Visualizations))
	for id, vis := range deps.Visualizations {
		items = append(items, switcher.Item{VisualizationID: id, Title: vis.Title()})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Title < items[j].Title })

	a := &appModel{
		deps:   deps,
		panel:  panel.New(ctrl, deps.Store, panel.WithStatus(deps.Status), panel.WithZoneManager(zone.DefaultManager)),
		status: core.NewStatusCmp(),
		help: modal.New(func() tea.Model {
			return help.New(
				help.Section{Title: "Suggestions", Bindings: panel.Keys.Bindings()},
				help.Section{Title: "General", Bindings: []key.Binding{keys.Switch, keys.History, keys.Logs, keys.SwitchTheme, keys.Help, keys.Quit}},
			)
		}, modal.WithTitle("Help"), modal.WithMaxWidth(70)),
		switcher: modal.New(func() tea.Model {
			return switcher.New(items, func() string { return deps.Store.State().Visualization.ActiveID })
		}, modal.WithTitle("Switch chart type"), modal.WithMaxWidth(40)),
		history: modal.New(func() tea.Model {
			return versions.New(deps.History)
		}, modal.WithTitle("History"), modal.WithMaxWidth(80)),
		logs: modal.New(func() tea.Model {
			return logs.NewLogsTable(deps.Logs)
		}, modal.WithTitle("Logs"), modal.WithMaxWidth(100)),
	}
	return a
}
