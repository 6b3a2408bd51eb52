package styles

import (
	"sync"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette every component draws with.
type Theme struct {
	Name string

	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Text       lipgloss.Color
	TextMuted  lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color
	Info       lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color

	// Syntax colors for expression highlighting.
	Keyword  lipgloss.Color
	Function lipgloss.Color
	String   lipgloss.Color
	Number   lipgloss.Color
	Operator lipgloss.Color
}

func fromFlavor(name string, f catppuccin.Flavor) Theme {
	c := func(col catppuccin.Color) lipgloss.Color { return lipgloss.Color(col.Hex) }
	return Theme{
		Name:       name,
		Primary:    c(f.Mauve()),
		Secondary:  c(f.Blue()),
		Accent:     c(f.Peach()),
		Text:       c(f.Text()),
		TextMuted:  c(f.Overlay1()),
		Background: c(f.Base()),
		Surface:    c(f.Surface0()),
		Border:     c(f.Surface2()),
		Info:       c(f.Sky()),
		Warning:    c(f.Yellow()),
		Error:      c(f.Red()),
		Success:    c(f.Green()),
		Keyword:    c(f.Mauve()),
		Function:   c(f.Blue()),
		String:     c(f.Green()),
		Number:     c(f.Peach()),
		Operator:   c(f.Sky()),
	}
}

var (
	themes = map[string]Theme{
		"dark":  fromFlavor("dark", catppuccin.Mocha),
		"light": fromFlavor("light", catppuccin.Latte),
	}

	mu      sync.RWMutex
	current = themes["dark"]
)

// Names lists the selectable themes.
func Names() []string {
	return []string{"dark", "light"}
}

// SetTheme switches the current theme. Unknown names keep the current one
// and report false.
func SetTheme(name string) bool {
	t, ok := themes[name]
	if !ok {
		return false
	}
	mu.Lock()
	current = t
	mu.Unlock()
	return true
}

func CurrentTheme() Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}
