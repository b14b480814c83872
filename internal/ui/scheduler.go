package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// scheduledMsg carries a callback due on the event loop.
type scheduledMsg struct {
	fn func()
}

// Scheduler queues one-shot callbacks as tea.Tick commands. Schedule only
// records the request; the model hands the commands to bubbletea after
// each Update, so callbacks always run inside Update.
type Scheduler struct {
	pending []tea.Cmd
}

func NewScheduler() *Scheduler { return &Scheduler{} }

func (s *Scheduler) Schedule(d time.Duration, fn func()) {
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return scheduledMsg{fn: fn}
	}))
}

// Flush returns the queued ticks as one command, or nil.
func (s *Scheduler) Flush() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}
