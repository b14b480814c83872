package visualizer

import "math"

const (
	// SilenceFloor is the intensity reported for bins with no energy.
	SilenceFloor = -80.0

	// LineScale is the vertical pixels per normalized dB unit on the line plot.
	LineScale = 20.0

	// VerticalBias lifts the line plot's 0 dB baseline off the bottom edge.
	VerticalBias = 200.0
)

// Params holds the user-adjustable gain and offset of one view.
type Params struct {
	DBOffset float64
	DBMax    float64
}

const (
	minDBMax    = 1.0
	maxDBMax    = 100.0
	minDBOffset = -80.0
	maxDBOffset = 80.0
)

func clampGain(v float64) float64 {
	if math.IsNaN(v) || v < minDBMax {
		return minDBMax
	}
	if v > maxDBMax {
		return maxDBMax
	}
	return v
}

func clampOffset(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < minDBOffset {
		return minDBOffset
	}
	if v > maxDBOffset {
		return maxDBOffset
	}
	return v
}

// Decibels converts a magnitude to dB, or SilenceFloor for magnitude <= 0.
func Decibels(magnitude float64) float64 {
	if !(magnitude > 0) {
		return SilenceFloor
	}
	return 10 * math.Log10(magnitude)
}

// WaterfallIntensity maps a magnitude to the waterfall's red intensity.
// The result is not clamped.
func WaterfallIntensity(magnitude, dbOffset, dbMax float64) float64 {
	if !(magnitude > 0) {
		return SilenceFloor
	}
	return (Decibels(magnitude) + dbOffset) / dbMax
}

// LineIntensity maps a magnitude to a pixel height above the line plot
// baseline. The offset is applied by the renderer in pixel space.
func LineIntensity(magnitude, dbMax float64) float64 {
	if !(magnitude > 0) {
		return SilenceFloor
	}
	return Decibels(magnitude) * LineScale / dbMax
}
