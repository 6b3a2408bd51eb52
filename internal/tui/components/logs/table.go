// Package logs lists the persisted log records.
package logs

import (
	"context"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sst/lens/internal/logging"
	"github.com/sst/lens/internal/pubsub"
	"github.com/sst/lens/internal/tui/styles"
)

const logLimit = 100

type tableCmp struct {
	table   table.Model
	service logging.Service
	logs    []logging.Log
}

// LogsLoadedMsg carries the records fetched on mount.
type LogsLoadedMsg struct {
	Logs []logging.Log
}

func (i *tableCmp) Init() tea.Cmd {
	return i.fetchLogs()
}

func (i *tableCmp) fetchLogs() tea.Cmd {
	return func() tea.Msg {
		if i.service == nil {
			return nil
		}
		logs, err := i.service.ListAll(context.Background(), logLimit)
		if err != nil {
			return nil
		}
		return LogsLoadedMsg{Logs: logs}
	}
}

func (i *tableCmp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LogsLoadedMsg:
		i.logs = msg.Logs
		i.updateRows()
		return i, nil

	case pubsub.Event[logging.Log]:
		if msg.Type == logging.EventLogCreated {
			i.logs = append([]logging.Log{msg.Payload}, i.logs...)
			if len(i.logs) > logLimit {
				i.logs = i.logs[:logLimit]
			}
			i.updateRows()
		}
		return i, nil

	case tea.WindowSizeMsg:
		i.setSize(msg.Width, max(msg.Height-12, 5))
		return i, nil
	}

	var cmd tea.Cmd
	i.table, cmd = i.table.Update(msg)
	return i, cmd
}

func (i *tableCmp) View() string {
	t := styles.CurrentTheme()
	defaultStyles := table.DefaultStyles()
	defaultStyles.Selected = defaultStyles.Selected.Foreground(t.Primary)
	i.table.SetStyles(defaultStyles)
	return i.table.View()
}

func (i *tableCmp) setSize(width int, height int) {
	i.table.SetWidth(width)
	i.table.SetHeight(height)
	columns := i.table.Columns()

	timeWidth := 8
	levelWidth := 7
	messageWidth := max(width-timeWidth-levelWidth-5, 10)

	columns[0].Width = 0
	columns[1].Width = timeWidth
	columns[2].Width = levelWidth
	columns[3].Width = messageWidth
	i.table.SetColumns(columns)
}

func (i *tableCmp) updateRows() {
	rows := make([]table.Row, 0, len(i.logs))
	for _, log := range i.logs {
		rows = append(rows, table.Row{
			log.ID,
			log.Timestamp.Local().Format("15:04:05"),
			log.Level,
			log.Message,
		})
	}
	i.table.SetRows(rows)
}

func NewLogsTable(service logging.Service) tea.Model {
	columns := []table.Column{
		{Title: "ID", Width: 0},
		{Title: "Time", Width: 8},
		{Title: "Level", Width: 7},
		{Title: "Message", Width: 30},
	}
	tableModel := table.New(table.WithColumns(columns), table.WithFocused(true))
	return &tableCmp{
		table:   tableModel,
		service: service,
	}
}
