package visualizer

import (
	"errors"
	"image"

	"golang.org/x/image/draw"
)

// Options configures an Analyzer. Zero fields take the defaults.
type Options struct {
	PlotWidth       int
	PlotHeight      int
	NyquistHz       float64
	SecondsPerPixel float64
	LineWidth       float64
	Waterfall       Params
	Line            Params
}

func (o *Options) applyDefaults() {
	if o.PlotWidth <= 0 {
		o.PlotWidth = 1024
	}
	if o.PlotHeight <= 0 {
		o.PlotHeight = 512
	}
	if o.NyquistHz <= 0 {
		o.NyquistHz = DefaultNyquistHz
	}
	if o.SecondsPerPixel <= 0 {
		o.SecondsPerPixel = DefaultSecondsPerPixel
	}
	if o.LineWidth <= 0 {
		o.LineWidth = DefaultLineWidth
	}
	if o.Waterfall.DBMax == 0 {
		o.Waterfall.DBMax = 18
	}
	if o.Line.DBMax == 0 {
		o.Line.DBMax = 20
	}
	o.Waterfall.DBMax = clampGain(o.Waterfall.DBMax)
	o.Waterfall.DBOffset = clampOffset(o.Waterfall.DBOffset)
	o.Line.DBMax = clampGain(o.Line.DBMax)
	o.Line.DBOffset = clampOffset(o.Line.DBOffset)
}

// Analyzer wires a source, the driver and both views together and is
// the surface hosts talk to.
type Analyzer struct {
	src       MagnitudeSource
	driver    *Driver
	waterfall *Waterfall
	spectrum  *Spectrum
	smoother  Smoother
	ruler     *Ruler
	params    [2]Params
	click     Click
	repaint   func()
}

func NewAnalyzer(src MagnitudeSource, sched Scheduler, opts Options, driverOpts ...DriverOption) *Analyzer {
	opts.applyDefaults()
	a := &Analyzer{
		src:       src,
		waterfall: NewWaterfall(opts.PlotWidth, opts.PlotHeight),
		spectrum:  NewSpectrum(opts.PlotWidth, opts.PlotHeight, opts.LineWidth),
		ruler:     NewRuler(opts.PlotWidth, opts.PlotHeight, opts.NyquistHz, opts.SecondsPerPixel),
	}
	a.params[ViewWaterfall] = opts.Waterfall
	a.params[ViewLine] = opts.Line
	a.driver = NewDriver(src, sched, a.consume, a.smoother.Reset, driverOpts...)
	a.driver.OnRepaint(a.requestRepaint)
	return a
}

// Connect opens the capture session. It must succeed before Start.
func (a *Analyzer) Connect() error {
	if err := a.src.Connect(); err != nil {
		var connErr *ConnectionError
		if errors.As(err, &connErr) {
			return err
		}
		return &ConnectionError{Source: a.src.SourceName(), Err: err}
	}
	return nil
}

func (a *Analyzer) Close() error {
	a.driver.Stop()
	return a.src.Close()
}

func (a *Analyzer) consume(frame []float64) error {
	avg, err := a.smoother.Update(frame)
	if err != nil {
		return err
	}
	a.waterfall.Push(frame, a.params[ViewWaterfall])
	a.spectrum.Draw(avg, a.params[ViewLine])
	return nil
}

func (a *Analyzer) requestRepaint() {
	if a.repaint != nil {
		a.repaint()
	}
}

// OnRepaint registers fn to run whenever the visuals changed.
func (a *Analyzer) OnRepaint(fn func()) { a.repaint = fn }

func (a *Analyzer) Start()          { a.driver.Start() }
func (a *Analyzer) Stop()           { a.driver.Stop() }
func (a *Analyzer) IsRunning() bool { return a.driver.State() == Running }

// Step renders one frame immediately, even while stopped.
func (a *Analyzer) Step() error { return a.driver.Step() }

func (a *Analyzer) Driver() *Driver { return a.driver }

func (a *Analyzer) SourceName() string { return a.src.SourceName() }

func (a *Analyzer) Source() MagnitudeSource { return a.src }

// BacklogSeconds reports the source's unread audio.
func (a *Analyzer) BacklogSeconds() float64 { return a.src.BacklogSeconds() }

// SetGain sets the dB range of view, clamped to [1, 100].
func (a *Analyzer) SetGain(v View, value float64) {
	if !validView(v) {
		return
	}
	a.params[v].DBMax = clampGain(value)
}

// SetOffset sets the dB offset of view, clamped to [-80, 80].
func (a *Analyzer) SetOffset(v View, value float64) {
	if !validView(v) {
		return
	}
	a.params[v].DBOffset = clampOffset(value)
}

func (a *Analyzer) Params(v View) Params {
	if !validView(v) {
		return Params{}
	}
	return a.params[v]
}

func validView(v View) bool { return v == ViewWaterfall || v == ViewLine }

// OnMousePress records a click in canvas pixels for the ruler.
func (a *Analyzer) OnMousePress(x, y int) {
	a.click = Click{X: x, Y: y, Set: true}
	a.requestRepaint()
}

// ClearClick removes the crosshair.
func (a *Analyzer) ClearClick() {
	a.click = Click{}
	a.requestRepaint()
}

func (a *Analyzer) Click() Click { return a.click }

func (a *Analyzer) Ruler() *Ruler { return a.ruler }

// CanvasSize is the size Render expects its destination to be.
func (a *Analyzer) CanvasSize() (int, int) { return a.ruler.CanvasSize() }

// NewCanvas allocates an image sized for Render.
func (a *Analyzer) NewCanvas() *image.RGBA {
	w, h := a.CanvasSize()
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// Render composites the selected view and the ruler into dst.
func (a *Analyzer) Render(dst *image.RGBA, v View) {
	var plot *image.RGBA
	if v == ViewLine {
		plot = a.spectrum.Image()
	} else {
		plot = a.waterfall.Image()
	}
	draw.Draw(dst, plot.Bounds(), plot, image.Point{}, draw.Src)
	a.ruler.Draw(dst, a.click)
}

// Surface returns the raw plot image of v without the ruler.
func (a *Analyzer) Surface(v View) *image.RGBA {
	if v == ViewLine {
		return a.spectrum.Image()
	}
	return a.waterfall.Image()
}
