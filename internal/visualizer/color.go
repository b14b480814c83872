package visualizer

import (
	"image/color"
	"math"
)

var (
	black = color.RGBA{A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	// fadeColor is black at 10% opacity, premultiplied.
	fadeColor = color.RGBA{A: 26}

	// guideColor is white at 20% opacity, premultiplied.
	guideColor = color.RGBA{R: 51, G: 51, B: 51, A: 51}

	lineColor = color.RGBA{R: 0xff, A: 0xff}
)

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RedColor converts an intensity to an opaque red, saturating outside [0,1].
func RedColor(intensity float64) color.RGBA {
	return color.RGBA{R: uint8(math.Round(clamp01(intensity) * 255)), A: 0xff}
}
