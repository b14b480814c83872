package ui

import (
	"fmt"
	"image/color"
	"os"
	"runtime"
	"strings"
	"sync"
)

// Brightness ramp for terminals without color, darkest first.
const asciiRamp = " .:-=+*#%@"

type colorMode uint8

const (
	colorOff colorMode = iota
	colorANSI16
	colorANSI256
	colorTrue
)

var (
	detectOnce sync.Once
	termColor  colorMode
)

// detectColorMode inspects the environment once per process.
func detectColorMode() colorMode {
	detectOnce.Do(func() {
		termColor = colorModeFor(os.LookupEnv, runtime.GOOS)
	})
	return termColor
}

func colorModeFor(lookup func(string) (string, bool), goos string) colorMode {
	if _, ok := lookup("NO_COLOR"); ok {
		return colorOff
	}
	term, _ := lookup("TERM")
	ct, _ := lookup("COLORTERM")
	term = strings.ToLower(term)
	ct = strings.ToLower(ct)
	switch {
	case strings.Contains(ct, "truecolor"), strings.Contains(ct, "24bit"):
		return colorTrue
	case strings.Contains(term, "256color"):
		return colorANSI256
	case term == "dumb":
		return colorOff
	case term == "" && goos == "windows":
		return colorANSI16
	case term == "":
		return colorOff
	default:
		return colorANSI16
	}
}

func brightnessChar(c color.RGBA) byte {
	lum := (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
	return asciiRamp[lum*(len(asciiRamp)-1)/255]
}

// colorSeq returns the escape that sets c as foreground, or background
// when bg is true. It is empty when colors are off.
func colorSeq(mode colorMode, c color.RGBA, bg bool) string {
	layer := 38
	if bg {
		layer = 48
	}
	switch mode {
	case colorTrue:
		return fmt.Sprintf("\x1b[%d;2;%d;%d;%dm", layer, c.R, c.G, c.B)
	case colorANSI256:
		return fmt.Sprintf("\x1b[%d;5;%dm", layer, cube256(c))
	case colorANSI16:
		idx := nearest16(c)
		base := 30
		if bg {
			base = 40
		}
		if idx >= 8 {
			base += 60
			idx -= 8
		}
		return fmt.Sprintf("\x1b[%dm", base+idx)
	default:
		return ""
	}
}

const ansiReset = "\x1b[0m"

// cube256 maps c into the 6x6x6 color cube of the 256-color palette.
func cube256(c color.RGBA) int {
	ri := int(c.R) * 5 / 255
	gi := int(c.G) * 5 / 255
	bi := int(c.B) * 5 / 255
	return 16 + 36*ri + 6*gi + bi
}

func nearest16(c color.RGBA) int {
	best := 0
	bestDist := 1<<31 - 1
	for i, p := range ansi16Palette {
		dr := int(c.R) - int(p.R)
		dg := int(c.G) - int(p.G)
		db := int(c.B) - int(p.B)
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

var ansi16Palette = [16]color.RGBA{
	{0, 0, 0, 255},
	{205, 49, 49, 255},
	{13, 188, 121, 255},
	{229, 229, 16, 255},
	{36, 114, 200, 255},
	{188, 63, 188, 255},
	{17, 168, 205, 255},
	{229, 229, 229, 255},
	{102, 102, 102, 255},
	{241, 76, 76, 255},
	{35, 209, 139, 255},
	{245, 245, 67, 255},
	{59, 142, 234, 255},
	{214, 112, 214, 255},
	{41, 184, 219, 255},
	{255, 255, 255, 255},
}
