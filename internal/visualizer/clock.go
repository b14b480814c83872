package visualizer

import (
	"sort"
	"time"
)

// ClockScheduler is a Scheduler for hosts that poll from their own frame
// loop. Callbacks run from RunDue once their due time has passed.
type ClockScheduler struct {
	now     func() time.Time
	pending []scheduledCall
	seq     uint64
}

type scheduledCall struct {
	at  time.Time
	seq uint64
	fn  func()
}

// NewClockScheduler uses now as its clock; nil means time.Now.
func NewClockScheduler(now func() time.Time) *ClockScheduler {
	if now == nil {
		now = time.Now
	}
	return &ClockScheduler{now: now}
}

func (s *ClockScheduler) Schedule(d time.Duration, fn func()) {
	s.seq++
	s.pending = append(s.pending, scheduledCall{at: s.now().Add(d), seq: s.seq, fn: fn})
}

// RunDue runs every callback that is due, oldest first, and returns how
// many ran. Callbacks scheduled while running wait for a later call.
func (s *ClockScheduler) RunDue() int {
	now := s.now()
	var due, later []scheduledCall
	for _, c := range s.pending {
		if !c.at.After(now) {
			due = append(due, c)
		} else {
			later = append(later, c)
		}
	}
	if len(due) == 0 {
		return 0
	}
	s.pending = later
	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	for _, c := range due {
		c.fn()
	}
	return len(due)
}

// Pending reports how many callbacks are waiting.
func (s *ClockScheduler) Pending() int { return len(s.pending) }
