package ui

import (
	"math"
	"testing"
)

func TestGaugeSettlesOnTarget(t *testing.T) {
	g := newGauge()
	for range 200 {
		g.Update(0.5)
	}
	if got := g.Value(); math.Abs(got-0.5) > 0.01 {
		t.Fatalf("gauge = %v, want 0.5", got)
	}
}

func TestGaugeClampsTarget(t *testing.T) {
	g := newGauge()
	for range 200 {
		g.Update(7)
	}
	if got := g.Value(); got > 1 {
		t.Fatalf("gauge = %v, want at most 1", got)
	}
	for range 200 {
		g.Update(math.NaN())
	}
	if got := g.Value(); got > 0.01 {
		t.Fatalf("gauge = %v after NaN target, want 0", got)
	}
}

func TestGaugeViewHasWidth(t *testing.T) {
	g := newGauge()
	if g.View(20) == "" {
		t.Fatal("expected a rendered bar")
	}
}
