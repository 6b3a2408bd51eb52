package format

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// VersionEntry is one recorded version.
type VersionEntry struct {
	ID            string    `json:"id"`
	Number        int64     `json:"number"`
	Title         string    `json:"title"`
	Visualization string    `json:"visualization"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LogEntry is one persisted log record.
type LogEntry struct {
	Timestamp  time.Time         `json:"timestamp"`
	Level      string            `json:"level"`
	Message    string            `json:"message"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

func FormatVersions(entries []VersionEntry, format OutputFormat) (string, error) {
	switch format {
	case TextFormat:
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("#", "ID", "CREATED", "VISUALIZATION", "TITLE")
		for _, e := range entries {
			t.Row(fmt.Sprint(e.Number), e.ID, e.CreatedAt.Local().Format(time.DateTime), e.Visualization, e.Title)
		}
		return t.Render() + "\n", nil
	case JSONFormat:
		return marshal(entries, []VersionEntry{})
	}
	return "", fmt.Errorf("unsupported output format: %s", format)
}

func FormatLogs(entries []LogEntry, format OutputFormat) (string, error) {
	switch format {
	case TextFormat:
		var b strings.Builder
		for _, e := range entries {
			fmt.Fprintf(&b, "%s %-5s %s", e.Timestamp.Local().Format(time.TimeOnly), strings.ToUpper(e.Level), e.Message)
			for _, k := range sortedKeys(e.Attributes) {
				fmt.Fprintf(&b, " %s=%s", k, e.Attributes[k])
			}
			b.WriteString("\n")
		}
		return b.String(), nil
	case JSONFormat:
		return marshal(entries, []LogEntry{})
	}
	return "", fmt.Errorf("unsupported output format: %s", format)
}

func marshal[T any](entries []T, empty []T) (string, error) {
	if entries == nil {
		entries = empty
	}
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(raw), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
