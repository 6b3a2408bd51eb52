// Package help shows the key bindings as rendered markdown.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sst/lens/internal/tui/styles"
)

type helpCmp struct {
	sections []Section
	viewport viewport.Model
	width    int
}

// Section is a titled group of bindings.
type Section struct {
	Title    string
	Bindings []key.Binding
}

func New(sections ...Section) tea.Model {
	return &helpCmp{sections: sections, viewport: viewport.New(60, 16)}
}

func (h *helpCmp) Init() tea.Cmd {
	h.render()
	return nil
}

func (h *helpCmp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width = msg.Width
		h.viewport.Width = msg.Width
		h.viewport.Height = max(msg.Height-10, 5)
		h.render()
		return h, nil
	}
	var cmd tea.Cmd
	h.viewport, cmd = h.viewport.Update(msg)
	return h, cmd
}

func (h *helpCmp) View() string {
	return h.viewport.View()
}

func (h *helpCmp) render() {
	md := Markdown(h.sections)
	width := h.width
	if width <= 0 {
		width = h.viewport.Width
	}
	if r := styles.GetMarkdownRenderer(width); r != nil {
		if out, err := r.Render(md); err == nil {
			md = out
		}
	}
	h.viewport.SetContent(md)
}

// Markdown lists every enabled binding of every section as a table.
func Markdown(sections []Section) string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## " + s.Title + "\n\n")
		b.WriteString("| key | action |\n|---|---|\n")
		for _, k := range s.Bindings {
			if !k.Enabled() {
				continue
			}
			h := k.Help()
			b.WriteString("| `" + h.Key + "` | " + h.Desc + " |\n")
		}
	}
	return b.String()
}
