package visualizer

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// DefaultLineWidth is the stroke width of the line plot in pixels.
const DefaultLineWidth = 1.0

// Spectrum renders smoothed magnitudes as a red polyline. Earlier lines
// are faded rather than cleared, leaving a glowing trail.
type Spectrum struct {
	img *image.RGBA
	pen *pen
	pts []point
}

func NewSpectrum(width, height int, lineWidth float64) *Spectrum {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(black), image.Point{}, draw.Src)
	return &Spectrum{img: img, pen: newPen(lineWidth)}
}

// Image exposes the surface for blitting. Callers must not modify it.
func (s *Spectrum) Image() *image.RGBA { return s.img }

// Draw fades the previous frames and strokes values on top.
func (s *Spectrum) Draw(values []float64, p Params) {
	b := s.img.Bounds()
	draw.Draw(s.img, b, image.NewUniform(fadeColor), image.Point{}, draw.Over)

	n := len(values)
	if n == 0 {
		return
	}
	s.pts = s.pts[:0]
	for i, v := range values {
		s.pts = append(s.pts, point{
			X: float64((i+1)*b.Dx()) / float64(n),
			Y: lineY(v, p, b.Dy()),
		})
	}
	s.pen.polyline(s.img, s.pts, lineColor)
}

func lineY(v float64, p Params, height int) float64 {
	y := float64(height) - LineIntensity(v, p.DBMax) - VerticalBias - p.DBOffset
	switch {
	case math.IsNaN(y):
		return float64(height) * 4
	case y > 1e6:
		return 1e6
	case y < -1e6:
		return -1e6
	}
	return y
}
