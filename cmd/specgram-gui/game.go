package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/olivier-w/specgram/internal/util"
	"github.com/olivier-w/specgram/internal/visualizer"
)

const statusH = 18

var bgColor = color.RGBA{16, 16, 20, 255}

type game struct {
	an    *visualizer.Analyzer
	sched *visualizer.ClockScheduler
	view  visualizer.View

	canvas *image.RGBA
	img    *ebiten.Image
	dirty  bool
	msg    string // why the last single step drew nothing
}

// failer is implemented by sources whose feed can stop on an error.
type failer interface {
	Err() error
}

func newGame(an *visualizer.Analyzer, sched *visualizer.ClockScheduler, view visualizer.View) *game {
	g := &game{
		an:     an,
		sched:  sched,
		view:   view,
		canvas: an.NewCanvas(),
		dirty:  true,
	}
	b := g.canvas.Bounds()
	g.img = ebiten.NewImage(b.Dx(), b.Dy())
	an.OnRepaint(func() { g.dirty = true })
	return g
}

func (g *game) Update() error {
	g.sched.RunDue()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if g.an.IsRunning() {
			g.an.Stop()
		} else {
			g.an.Start()
			g.msg = ""
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyPeriod):
		g.step()
	case inpututil.IsKeyJustPressed(ebiten.KeyV), inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.view = g.view.Next()
		g.dirty = true
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.an.SetGain(g.view, g.an.Params(g.view).DBMax+1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.an.SetGain(g.view, g.an.Params(g.view).DBMax-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		g.an.SetOffset(g.view, g.an.Params(g.view).DBOffset+1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		g.an.SetOffset(g.view, g.an.Params(g.view).DBOffset-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.an.ClearClick()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if (image.Point{X: x, Y: y}).In(g.canvas.Bounds()) {
			g.an.OnMousePress(x, y)
		}
	}
	return nil
}

// step renders one frame while stopped and keeps the skip reason.
func (g *game) step() {
	if g.an.IsRunning() {
		return
	}
	g.msg = ""
	if err := g.an.Step(); err != nil {
		g.msg = err.Error()
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	if g.dirty {
		g.an.Render(g.canvas, g.view)
		g.img.WritePixels(g.canvas.Pix)
		g.dirty = false
	}
	screen.DrawImage(g.img, nil)
	ebitenutil.DebugPrintAt(screen, g.status(), 4, g.canvas.Bounds().Dy()+1)
}

func (g *game) status() string {
	state := "stopped"
	if g.an.IsRunning() {
		state = "running"
	}
	msg := g.msg
	if f, ok := g.an.Source().(failer); ok {
		if err := f.Err(); err != nil {
			state, msg = "failed", err.Error()
		}
	}
	p := g.an.Params(g.view)
	line := fmt.Sprintf("%s  %s  gain %.0f dB  offset %+.0f dB  backlog %s",
		state, g.view, p.DBMax, p.DBOffset, util.FormatSeconds(g.an.BacklogSeconds()))
	if msg != "" {
		line += "  " + msg
	}
	return line
}

// Layout keeps the canvas at its native size; ebiten scales the window.
func (g *game) Layout(int, int) (int, int) {
	b := g.canvas.Bounds()
	return b.Dx(), b.Dy() + statusH
}
