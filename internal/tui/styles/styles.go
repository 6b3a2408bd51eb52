package styles

import "github.com/charmbracelet/lipgloss"

func BaseStyle() lipgloss.Style {
	t := CurrentTheme()
	return lipgloss.NewStyle().Foreground(t.Text)
}

func Padded() lipgloss.Style {
	return BaseStyle().Padding(0, 1)
}

func Muted() lipgloss.Style {
	return BaseStyle().Foreground(CurrentTheme().TextMuted)
}

func Bold() lipgloss.Style {
	return BaseStyle().Bold(true)
}

// Card frames one suggestion. Focused cards get the primary border and
// selected ones the accent.
func Card(focused, selected bool) lipgloss.Style {
	t := CurrentTheme()
	border := t.Border
	switch {
	case selected:
		border = t.Accent
	case focused:
		border = t.Primary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

func Modal() lipgloss.Style {
	t := CurrentTheme()
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2)
}
