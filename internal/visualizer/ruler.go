package visualizer

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// RulerSize is the width of the label strips right of and below the plot.
	RulerSize = 20

	DefaultNyquistHz       = 22050.0
	DefaultSecondsPerPixel = 0.025
)

// Click is the last mouse press in canvas pixels.
type Click struct {
	X, Y int
	Set  bool
}

// Ruler draws the axis borders and, for a click inside the plot, a
// crosshair with frequency and time labels.
type Ruler struct {
	plotW, plotH    int
	nyquistHz       float64
	secondsPerPixel float64
	face            font.Face
}

func NewRuler(plotW, plotH int, nyquistHz, secondsPerPixel float64) *Ruler {
	return &Ruler{
		plotW:           plotW,
		plotH:           plotH,
		nyquistHz:       nyquistHz,
		secondsPerPixel: secondsPerPixel,
		face:            basicfont.Face7x13,
	}
}

// CanvasSize is the plot plus both ruler strips.
func (r *Ruler) CanvasSize() (int, int) {
	return r.plotW + RulerSize, r.plotH + RulerSize
}

// Contains reports whether c is a recorded click inside the plot.
func (r *Ruler) Contains(c Click) bool {
	return c.Set && c.X >= 0 && c.X < r.plotW && c.Y >= 0 && c.Y < r.plotH
}

// FrequencyAt maps a plot row to Hz; row 0 is the Nyquist frequency.
func (r *Ruler) FrequencyAt(y int) int {
	return int(float64(r.plotH-y) * r.nyquistHz / float64(r.plotH))
}

// TimeAt maps a plot column to seconds before the newest column.
func (r *Ruler) TimeAt(x int) float64 {
	return float64(r.plotW-1-x) * r.secondsPerPixel
}

func (r *Ruler) FrequencyLabel(y int) string { return fmt.Sprintf("%d Hz", r.FrequencyAt(y)) }

func (r *Ruler) TimeLabel(x int) string { return fmt.Sprintf("%.2f s", r.TimeAt(x)) }

// Draw paints the ruler onto a canvas-sized dst that already holds the plot.
func (r *Ruler) Draw(dst *image.RGBA, c Click) {
	w, h := r.plotW, r.plotH
	cw, ch := r.CanvasSize()

	draw.Draw(dst, image.Rect(w, 0, cw, ch), image.NewUniform(white), image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(0, h, cw, ch), image.NewUniform(white), image.Point{}, draw.Src)

	vline(dst, w, 0, h, black)
	hline(dst, h, 0, w, black)
	hline(dst, ch-1, 0, cw-1, black)
	vline(dst, cw-1, 0, ch-1, black)

	if !r.Contains(c) {
		return
	}

	hz := r.FrequencyLabel(c.Y)
	fixY := -2
	if c.Y > h/2 {
		fixY = font.MeasureString(r.face, hz).Ceil() + 4
	}
	r.rotatedText(dst, w+6, c.Y-fixY, hz)
	hline(dst, c.Y, w, cw-1, black)

	sec := r.TimeLabel(c.X)
	fixX := -2
	if c.X > w/2 {
		fixX = font.MeasureString(r.face, sec).Ceil() + 4
	}
	r.text(dst, c.X-fixX, h+14, sec)
	vline(dst, c.X, h, ch-1, black)

	vline(dst, c.X, 0, c.Y-1, guideColor)
	vline(dst, c.X, c.Y+1, h-1, guideColor)
	hline(dst, c.Y, 0, c.X-1, guideColor)
	hline(dst, c.Y, c.X+1, w-1, guideColor)
}

// text draws s with its baseline starting at (x, y).
func (r *Ruler) text(dst draw.Image, x, y int, s string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(black),
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// rotatedText draws s turned 90° clockwise, reading top to bottom, with
// its baseline starting at (x, y). Glyphs extend to the right of x.
func (r *Ruler) rotatedText(dst draw.Image, x, y int, s string) {
	m := r.face.Metrics()
	asc := m.Ascent.Ceil()
	tw := font.MeasureString(r.face, s).Ceil()
	th := asc + m.Descent.Ceil()
	if tw <= 0 || th <= 0 {
		return
	}

	flat := image.NewAlpha(image.Rect(0, 0, tw, th))
	d := font.Drawer{Dst: flat, Src: image.Opaque, Face: r.face, Dot: fixed.P(0, asc)}
	d.DrawString(s)

	// Text pixel (u, v) lands at (x+asc-v, y+u).
	turned := image.NewAlpha(image.Rect(0, 0, th, tw))
	for v := 0; v < th; v++ {
		for u := 0; u < tw; u++ {
			turned.SetAlpha(th-1-v, u, flat.AlphaAt(u, v))
		}
	}
	at := image.Pt(x+asc-(th-1), y)
	draw.DrawMask(dst, turned.Bounds().Add(at), image.NewUniform(black), image.Point{}, turned, image.Point{}, draw.Over)
}
