package visualizer

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Waterfall renders a scrolling spectrogram. Each Advance scrolls the
// surface one pixel to the left and paints the newest frame into the
// rightmost column; history is never redrawn.
type Waterfall struct {
	img *image.RGBA
}

func NewWaterfall(width, height int) *Waterfall {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(black), image.Point{}, draw.Src)
	return &Waterfall{img: img}
}

// Image exposes the surface for blitting. Callers must not modify it.
func (w *Waterfall) Image() *image.RGBA { return w.img }

// Push colors frame with params and advances the waterfall by one column.
func (w *Waterfall) Push(frame []float64, p Params) {
	if len(frame) == 0 {
		return
	}
	column := make([]color.RGBA, len(frame))
	for i, m := range frame {
		column[i] = RedColor(WaterfallIntensity(m, p.DBOffset, p.DBMax))
	}
	w.Advance(column)
}

// Advance scrolls left by one pixel and paints column at the right edge.
// column[0] is the lowest frequency and lands at the bottom.
func (w *Waterfall) Advance(column []color.RGBA) {
	n := len(column)
	if n == 0 {
		return
	}
	b := w.img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return
	}

	draw.Draw(w.img, image.Rect(0, 0, width-1, height), w.img, image.Pt(1, 0), draw.Src)

	x := width - 1
	for i, c := range column {
		top, bottom := bucketRows(i, n, height)
		for y := top; y < bottom; y++ {
			w.img.SetRGBA(x, y, c)
		}
	}
}

// bucketRows returns the pixel rows [top, bottom) covered by bin i of n.
func bucketRows(i, n, height int) (top, bottom int) {
	return height - (i+1)*height/n, height - i*height/n
}
