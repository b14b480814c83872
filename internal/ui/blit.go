package ui

import (
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// blitter turns a canvas image into terminal text. With color it packs
// two pixel rows into each cell using "▀" with the top pixel as
// foreground and the bottom one as background; without color it maps
// each pixel to a brightness character.
type blitter struct {
	mode   colorMode
	scaled *image.RGBA
	sb     strings.Builder
}

func newBlitter(mode colorMode) *blitter {
	return &blitter{mode: mode}
}

// pixelRows is how many image rows one terminal row shows.
func (b *blitter) pixelRows() int {
	if b.mode == colorOff {
		return 1
	}
	return 2
}

// Render scales src to cols x rows cells and encodes it.
func (b *blitter) Render(src *image.RGBA, cols, rows int) string {
	if src == nil || cols <= 0 || rows <= 0 || src.Bounds().Empty() {
		return ""
	}

	r := image.Rect(0, 0, cols, rows*b.pixelRows())
	if b.scaled == nil || b.scaled.Bounds() != r {
		b.scaled = image.NewRGBA(r)
	}
	draw.BiLinear.Scale(b.scaled, r, src, src.Bounds(), draw.Src, nil)

	b.sb.Reset()
	b.sb.Grow(cols * rows * 24)
	if b.mode == colorOff {
		b.ascii(cols, rows)
	} else {
		b.halfBlock(cols, rows)
	}
	return b.sb.String()
}

func (b *blitter) halfBlock(cols, rows int) {
	var lastFg, lastBg string
	for row := range rows {
		for col := range cols {
			fg := colorSeq(b.mode, b.scaled.RGBAAt(col, 2*row), false)
			bg := colorSeq(b.mode, b.scaled.RGBAAt(col, 2*row+1), true)
			if fg != lastFg {
				b.sb.WriteString(fg)
				lastFg = fg
			}
			if bg != lastBg {
				b.sb.WriteString(bg)
				lastBg = bg
			}
			b.sb.WriteString("▀")
		}
		b.sb.WriteString(ansiReset)
		lastFg, lastBg = "", ""
		if row < rows-1 {
			b.sb.WriteByte('\n')
		}
	}
}

func (b *blitter) ascii(cols, rows int) {
	for row := range rows {
		for col := range cols {
			b.sb.WriteByte(brightnessChar(b.scaled.RGBAAt(col, row)))
		}
		if row < rows-1 {
			b.sb.WriteByte('\n')
		}
	}
}

// cellToPixel maps the center of a plot cell to canvas coordinates.
func cellToPixel(col, row, cols, rows, canvasW, canvasH int) (int, int) {
	x := (2*col + 1) * canvasW / (2 * cols)
	y := (2*row + 1) * canvasH / (2 * rows)
	return x, y
}
