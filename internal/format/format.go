// Package format renders suggestion listings for non-interactive output.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// OutputFormat represents the format for non-interactive mode output
type OutputFormat string

const (
	// TextFormat is a table followed by each preview expression (default)
	TextFormat OutputFormat = "text"

	// JSONFormat is an array of entries
	JSONFormat OutputFormat = "json"
)

// IsValid checks if the output format is valid
func (f OutputFormat) IsValid() bool {
	return f == TextFormat || f == JSONFormat
}

func (f OutputFormat) String() string {
	return string(f)
}

// Parse reads a format flag value.
func Parse(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("unsupported output format: %q (want text or json)", s)
	}
	return f, nil
}

// Entry is one presented suggestion.
type Entry struct {
	Index         int     `json:"index"`
	Title         string  `json:"title"`
	Visualization string  `json:"visualization"`
	Score         float64 `json:"score"`
	Icon          string  `json:"icon,omitempty"`
	Selected      bool    `json:"selected"`
	Expression    string  `json:"expression,omitempty"`
}

// FormatSuggestions formats entries according to format.
func FormatSuggestions(entries []Entry, format OutputFormat) (string, error) {
	switch format {
	case TextFormat:
		return text(entries), nil
	case JSONFormat:
		return marshal(entries, []Entry{})
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

func text(entries []Entry) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "TITLE", "VISUALIZATION", "SCORE", "PREVIEW")
	for _, e := range entries {
		marker := strconv.Itoa(e.Index)
		if e.Selected {
			marker = "*" + marker
		}
		score := ""
		if e.Index > 0 {
			score = strconv.FormatFloat(e.Score, 'f', 2, 64)
		}
		preview := "expression"
		if e.Expression == "" {
			preview = "icon:" + e.Icon
		}
		t.Row(marker, e.Title, e.Visualization, score, preview)
	}

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")
	for _, e := range entries {
		if e.Expression == "" {
			continue
		}
		fmt.Fprintf(&b, "\n[%d] %s\n%s\n", e.Index, e.Title, e.Expression)
	}
	return b.String()
}
