package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/olivier-w/specgram/internal/visualizer"
)

type stubSource struct {
	frame []float64
	err   error
}

func (s *stubSource) Connect() error          { return nil }
func (s *stubSource) BacklogSeconds() float64 { return 0 }
func (s *stubSource) DiscardBacklog()         {}
func (s *stubSource) SourceName() string      { return "test tone" }
func (s *stubSource) Close() error            { return nil }
func (s *stubSource) Err() error              { return s.err }

func (s *stubSource) Read() []float64 {
	if s.frame == nil {
		return nil
	}
	return append([]float64(nil), s.frame...)
}

func newTestGame(t *testing.T, src *stubSource) *game {
	t.Helper()
	sched := visualizer.NewClockScheduler(nil)
	an := visualizer.NewAnalyzer(src, sched, visualizer.Options{PlotWidth: 32, PlotHeight: 16})
	if err := an.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	return &game{an: an, sched: sched, view: visualizer.ViewWaterfall, canvas: an.NewCanvas()}
}

func TestStepKeepsSkipReason(t *testing.T) {
	src := &stubSource{}
	g := newTestGame(t, src)

	g.step()
	if g.msg == "" {
		t.Fatal("empty read left no message")
	}
	if !strings.Contains(g.status(), g.msg) {
		t.Fatalf("status %q does not show %q", g.status(), g.msg)
	}

	src.frame = []float64{1, 10, 100}
	g.step()
	if g.msg != "" {
		t.Fatalf("successful step kept message %q", g.msg)
	}
}

func TestStatusShowsFeedFailure(t *testing.T) {
	src := &stubSource{err: errors.New("ogg: bad packet")}
	g := newTestGame(t, src)

	status := g.status()
	if !strings.HasPrefix(status, "failed") || !strings.Contains(status, "ogg: bad packet") {
		t.Fatalf("status = %q", status)
	}
}
