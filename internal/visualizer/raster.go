package visualizer

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

type point struct{ X, Y float64 }

// pen strokes anti-aliased polylines onto an RGBA surface.
type pen struct {
	z     *vector.Rasterizer
	width float64
}

func newPen(width float64) *pen {
	if width <= 0 {
		width = 1
	}
	return &pen{z: vector.NewRasterizer(0, 0), width: width}
}

// polyline strokes consecutive points. A single point becomes a dot.
func (p *pen) polyline(dst *image.RGBA, pts []point, c color.Color) {
	if len(pts) == 0 {
		return
	}
	b := dst.Bounds()
	p.z.Reset(b.Dx(), b.Dy())
	p.z.DrawOp = draw.Over

	hw := p.width / 2
	if len(pts) == 1 {
		d := math.Max(hw, 0.5)
		q := pts[0]
		if q.X+d < 0 || q.Y+d < 0 || q.X-d > float64(b.Dx()) || q.Y-d > float64(b.Dy()) {
			return
		}
		p.quad(point{q.X - d, q.Y - d}, point{q.X + d, q.Y - d}, point{q.X + d, q.Y + d}, point{q.X - d, q.Y + d})
	} else {
		minX, minY := -p.width, -p.width
		maxX, maxY := float64(b.Dx())+p.width, float64(b.Dy())+p.width
		for i := 1; i < len(pts); i++ {
			a, e, ok := clipSegment(pts[i-1], pts[i], minX, minY, maxX, maxY)
			if !ok {
				continue
			}
			p.segment(a, e, hw)
		}
	}
	p.z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

func (p *pen) segment(a, e point, hw float64) {
	dx, dy := e.X-a.X, e.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*hw, dx/l*hw
	p.quad(point{a.X + nx, a.Y + ny}, point{e.X + nx, e.Y + ny}, point{e.X - nx, e.Y - ny}, point{a.X - nx, a.Y - ny})
}

func (p *pen) quad(a, b, c, d point) {
	p.z.MoveTo(float32(a.X), float32(a.Y))
	p.z.LineTo(float32(b.X), float32(b.Y))
	p.z.LineTo(float32(c.X), float32(c.Y))
	p.z.LineTo(float32(d.X), float32(d.Y))
	p.z.ClosePath()
}

// clipSegment clips a-b to the rectangle with Liang-Barsky.
func clipSegment(a, b point, minX, minY, maxX, maxY float64) (point, point, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := b.X-a.X, b.Y-a.Y
	edges := [4][2]float64{
		{-dx, a.X - minX},
		{dx, maxX - a.X},
		{-dy, a.Y - minY},
		{dy, maxY - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return a, b, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return point{a.X + t0*dx, a.Y + t0*dy}, point{a.X + t1*dx, a.Y + t1*dy}, true
}

// hline and vline draw 1px axis-aligned lines covering [from, to]. An
// empty range draws nothing.
func hline(dst draw.Image, y, from, to int, c color.Color) {
	if from > to {
		return
	}
	draw.Draw(dst, image.Rect(from, y, to+1, y+1), image.NewUniform(c), image.Point{}, draw.Over)
}

func vline(dst draw.Image, x, from, to int, c color.Color) {
	if from > to {
		return
	}
	draw.Draw(dst, image.Rect(x, from, x+1, to+1), image.NewUniform(c), image.Point{}, draw.Over)
}
