// Package versions lists the recorded history and restores a chosen version.
package versions

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sst/lens/internal/history"
	"github.com/sst/lens/internal/pubsub"
	"github.com/sst/lens/internal/tui/components/modal"
	"github.com/sst/lens/internal/tui/styles"
	"github.com/sst/lens/internal/tui/util"
)

const versionLimit = 50

// RestoreMsg asks the app to restore a version.
type RestoreMsg struct {
	Version history.Version
}

// VersionsLoadedMsg carries the versions fetched on mount.
type VersionsLoadedMsg struct {
	Versions []history.Version
	Err      error
}

var restoreKey = key.NewBinding(
	key.WithKeys("enter"),
	key.WithHelp("enter", "restore version"),
)

type tableCmp struct {
	table    table.Model
	service  history.Service
	versions []history.Version
	err      error
}

func (v *tableCmp) Init() tea.Cmd {
	return v.fetch()
}

func (v *tableCmp) fetch() tea.Cmd {
	return func() tea.Msg {
		if v.service == nil {
			return VersionsLoadedMsg{}
		}
		versions, err := v.service.List(context.Background(), versionLimit)
		return VersionsLoadedMsg{Versions: versions, Err: err}
	}
}

func (v *tableCmp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case VersionsLoadedMsg:
		v.versions, v.err = msg.Versions, msg.Err
		v.updateRows()
		return v, nil

	case pubsub.Event[history.Version]:
		if msg.Type == history.EventVersionCreated {
			v.versions = append([]history.Version{msg.Payload}, v.versions...)
			if len(v.versions) > versionLimit {
				v.versions = v.versions[:versionLimit]
			}
			v.updateRows()
		}
		return v, nil

	case tea.WindowSizeMsg:
		v.setSize(msg.Width, max(msg.Height-12, 5))
		return v, nil

	case tea.KeyMsg:
		if key.Matches(msg, restoreKey) {
			cursor := v.table.Cursor()
			if cursor < 0 || cursor >= len(v.versions) {
				return v, nil
			}
			return v, tea.Batch(
				util.CmdHandler(modal.CloseMsg{}),
				util.CmdHandler(RestoreMsg{Version: v.versions[cursor]}),
			)
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func (v *tableCmp) View() string {
	if v.err != nil {
		return styles.BaseStyle().Foreground(styles.CurrentTheme().Error).Render("loading history: " + v.err.Error())
	}
	if len(v.versions) == 0 {
		return styles.Muted().Render("no versions recorded yet")
	}
	t := styles.CurrentTheme()
	s := table.DefaultStyles()
	s.Selected = s.Selected.Foreground(t.Primary)
	v.table.SetStyles(s)
	return v.table.View()
}

func (v *tableCmp) setSize(width, height int) {
	v.table.SetWidth(width)
	v.table.SetHeight(height)
	columns := v.table.Columns()
	columns[0].Width = 5
	columns[1].Width = 8
	columns[2].Width = 14
	columns[3].Width = max(width-5-8-14-7, 10)
	v.table.SetColumns(columns)
}

func (v *tableCmp) updateRows() {
	rows := make([]table.Row, 0, len(v.versions))
	for _, ver := range v.versions {
		rows = append(rows, table.Row{
			fmt.Sprintf("#%d", ver.Number),
			ver.CreatedAt.Local().Format("15:04:05"),
			ver.VisualizationID,
			ver.Title,
		})
	}
	v.table.SetRows(rows)
}

func New(service history.Service) tea.Model {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Time", Width: 8},
		{Title: "Chart", Width: 14},
		{Title: "Title", Width: 30},
	}
	return &tableCmp{
		table:   table.New(table.WithColumns(columns), table.WithFocused(true)),
		service: service,
	}
}
