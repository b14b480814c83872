package ui

import (
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/harmonica"
)

const gaugeFPS = 20

// gauge shows capture backlog as a fraction of the discard limit. The bar
// follows the measured value through a spring so single-tick spikes do
// not flicker.
type gauge struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	bar    progress.Model
}

func newGauge() *gauge {
	return &gauge{
		spring: harmonica.NewSpring(harmonica.FPS(gaugeFPS), 8.0, 0.9),
		bar: progress.New(
			progress.WithGradient("#2E7D32", "#C62828"),
			progress.WithoutPercentage(),
		),
	}
}

// Update advances the spring one frame toward target, clamped to [0, 1].
func (g *gauge) Update(target float64) {
	g.pos, g.vel = g.spring.Update(g.pos, g.vel, clampUnit(target))
}

func (g *gauge) Value() float64 { return clampUnit(g.pos) }

func (g *gauge) View(width int) string {
	if width < 4 {
		width = 4
	}
	g.bar.Width = width
	return g.bar.ViewAs(g.Value())
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
