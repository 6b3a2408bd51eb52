package util

import (
	tea "github.com/charmbracelet/bubbletea"
)

func CmdHandler(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

func Clamp(v, low, high int) int {
	if high < low {
		low, high = high, low
	}
	return min(high, max(low, v))
}

// Wrap moves v by delta inside [0, n), wrapping at both ends.
func Wrap(v, delta, n int) int {
	if n <= 0 {
		return 0
	}
	return ((v+delta)%n + n) % n
}
