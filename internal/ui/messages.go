package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// statusTickMsg refreshes the clock and the backlog gauge.
type statusTickMsg time.Time

func statusTickCmd() tea.Cmd {
	return tea.Tick(time.Second/gaugeFPS, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}
