package visualizer

import (
	"errors"
	"testing"
)

type failingSource struct{ stubSource }

var errNoDevice = errors.New("no device")

func (f *failingSource) Connect() error { return errNoDevice }

func TestAnalyzerConnectWrapsSourceErrors(t *testing.T) {
	a := NewAnalyzer(&failingSource{}, &manualScheduler{}, Options{})
	err := a.Connect()

	var ce *ConnectionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConnectionError, got %T", err)
	}
	if !errors.Is(err, errNoDevice) {
		t.Fatal("expected the source error to be unwrappable")
	}
	if ce.Source != "stub" {
		t.Fatalf("expected source name in error, got %q", ce.Source)
	}
}

func TestAnalyzerViewParamsAreIndependent(t *testing.T) {
	a := NewAnalyzer(&stubSource{}, &manualScheduler{}, Options{})
	if got := a.Params(ViewWaterfall); got.DBMax != 18 || got.DBOffset != 0 {
		t.Fatalf("unexpected waterfall defaults %+v", got)
	}
	if got := a.Params(ViewLine); got.DBMax != 20 || got.DBOffset != 0 {
		t.Fatalf("unexpected line defaults %+v", got)
	}

	a.SetGain(ViewWaterfall, 30)
	a.SetOffset(ViewLine, -12)
	if got := a.Params(ViewWaterfall); got.DBMax != 30 || got.DBOffset != 0 {
		t.Fatalf("unexpected waterfall params %+v", got)
	}
	if got := a.Params(ViewLine); got.DBMax != 20 || got.DBOffset != -12 {
		t.Fatalf("unexpected line params %+v", got)
	}

	a.SetGain(ViewLine, 0)
	a.SetOffset(ViewWaterfall, 1000)
	if got := a.Params(ViewLine).DBMax; got != 1 {
		t.Fatalf("expected gain clamped to 1, got %v", got)
	}
	if got := a.Params(ViewWaterfall).DBOffset; got != 80 {
		t.Fatalf("expected offset clamped to 80, got %v", got)
	}
}

func TestAnalyzerMousePressRequestsRepaint(t *testing.T) {
	a := NewAnalyzer(&stubSource{}, &manualScheduler{}, Options{PlotWidth: 64, PlotHeight: 32})
	repaints := 0
	a.OnRepaint(func() { repaints++ })

	a.OnMousePress(10, 5)
	if c := a.Click(); !c.Set || c.X != 10 || c.Y != 5 {
		t.Fatalf("unexpected click %+v", c)
	}
	a.ClearClick()
	if a.Click().Set {
		t.Fatal("expected click to be cleared")
	}
	if repaints != 2 {
		t.Fatalf("expected 2 repaints, got %d", repaints)
	}
}

func TestAnalyzerRenderComposesPlotAndRuler(t *testing.T) {
	src := &stubSource{frames: [][]float64{{100, 100}}}
	a := NewAnalyzer(src, &manualScheduler{}, Options{PlotWidth: 16, PlotHeight: 8, Waterfall: Params{DBMax: 20}})
	if err := a.Step(); err != nil {
		t.Fatal(err)
	}

	canvas := a.NewCanvas()
	if w, h := a.CanvasSize(); canvas.Bounds().Dx() != w || canvas.Bounds().Dy() != h || w != 16+RulerSize || h != 8+RulerSize {
		t.Fatalf("unexpected canvas %v", canvas.Bounds())
	}
	a.Render(canvas, ViewWaterfall)
	if got := canvas.RGBAAt(15, 0).R; got != 255 {
		t.Fatalf("expected the newest column in the plot area, got R=%d", got)
	}
	if got := canvas.RGBAAt(18, 2); got != white {
		t.Fatalf("expected ruler strip, got %+v", got)
	}
}

func TestAnalyzerRestartResetsSmoothing(t *testing.T) {
	src := &stubSource{frames: [][]float64{{9}, {0}}}
	sched := &manualScheduler{}
	a := NewAnalyzer(src, sched, Options{PlotWidth: 4, PlotHeight: 4})

	a.Start()
	sched.fire()
	a.Stop()
	sched.fire()
	a.Start()
	if a.smoother.Values() != nil {
		t.Fatal("expected start to reset the line plot average")
	}
	sched.fire()
	if got := a.smoother.Values(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected the first frame after restart to bootstrap, got %v", got)
	}
	if !a.IsRunning() {
		t.Fatal("expected analyzer to be running")
	}
}

func TestParseView(t *testing.T) {
	tests := []struct {
		in   string
		want View
	}{
		{"waterfall", ViewWaterfall},
		{"", ViewWaterfall},
		{"FFT", ViewLine},
		{" line ", ViewLine},
	}
	for _, tt := range tests {
		got, err := ParseView(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseView(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseView("sonogram"); err == nil {
		t.Fatal("ParseView accepted an unknown name")
	}
	if ViewLine.String() != "fft" || ViewLine.Next() != ViewWaterfall {
		t.Fatal("view names or cycling changed")
	}
}
