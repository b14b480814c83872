package visualizer

import (
	"testing"
	"time"
)

func TestClockSchedulerRunsDueCallbacksInOrder(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewClockScheduler(func() time.Time { return now })

	var order []int
	s.Schedule(20*time.Millisecond, func() { order = append(order, 2) })
	s.Schedule(10*time.Millisecond, func() { order = append(order, 1) })
	s.Schedule(time.Second, func() { order = append(order, 3) })

	if n := s.RunDue(); n != 0 {
		t.Fatalf("RunDue() before due = %d", n)
	}
	now = now.Add(25 * time.Millisecond)
	if n := s.RunDue(); n != 2 {
		t.Fatalf("RunDue() = %d, want 2", n)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("order = %v, want [1 2]", order)
	}
	if s.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", s.Pending())
	}
}

func TestClockSchedulerDefersReschedules(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewClockScheduler(func() time.Time { return now })

	runs := 0
	var tick func()
	tick = func() {
		runs++
		s.Schedule(0, tick)
	}
	s.Schedule(0, tick)

	s.RunDue()
	if runs != 1 {
		t.Fatalf("runs = %d, want 1 per RunDue", runs)
	}
	s.RunDue()
	if runs != 2 {
		t.Fatalf("runs = %d, want 2", runs)
	}
}

func TestClockSchedulerDrivesAnalyzer(t *testing.T) {
	now := time.Unix(0, 0)
	s := NewClockScheduler(func() time.Time { return now })
	src := &stubSource{frames: repeatFrames(3, []float64{1, 2, 3, 4})}
	a := NewAnalyzer(src, s, Options{PlotWidth: 16, PlotHeight: 8})

	a.Start()
	for range 3 {
		now = now.Add(DefaultTickInterval)
		s.RunDue()
	}
	reads := 0
	for _, c := range src.calls {
		if c == "read" {
			reads++
		}
	}
	if reads != 3 {
		t.Fatalf("reads = %d, want 3", reads)
	}
	a.Stop()
	now = now.Add(DefaultTickInterval)
	s.RunDue()
	if s.Pending() != 0 {
		t.Fatalf("stopped driver left %d callbacks pending", s.Pending())
	}
}
