// Package app holds the start-up steps shared by the terminal and window
// front ends: flags, config, logging, metrics and opening the analyzer.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/olivier-w/specgram/internal/capture"
	"github.com/olivier-w/specgram/internal/config"
	"github.com/olivier-w/specgram/internal/logging"
	"github.com/olivier-w/specgram/internal/metrics"
	"github.com/olivier-w/specgram/internal/visualizer"
)

// Flags are the command-line settings. Flags that were not given leave
// the config file's values alone.
type Flags struct {
	ConfigPath  string
	View        string
	Loop        bool
	Paused      bool
	Bins        int
	LogFile     string
	LogLevel    string
	MetricsAddr string

	set  map[string]bool
	Args []string
}

// ErrHelp is returned when -h was requested.
var ErrHelp = flag.ErrHelp

// ParseFlags parses args (without the program name).
func ParseFlags(name string, args []string, output io.Writer) (*Flags, error) {
	f := &Flags{set: make(map[string]bool)}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(output, "Usage: %s [flags] [audio file]\n\nFormats: %s\n\nFlags:\n", name, capture.SupportedExtsList())
		fs.PrintDefaults()
	}

	fs.StringVar(&f.ConfigPath, "config", "", "YAML config file")
	fs.StringVar(&f.View, "view", "waterfall", "initial view: waterfall or fft")
	fs.BoolVar(&f.Loop, "loop", false, "restart the file when it ends")
	fs.BoolVar(&f.Paused, "paused", false, "open stopped instead of running")
	fs.IntVar(&f.Bins, "bins", 0, "FFT bins per frame (overrides config)")
	fs.StringVar(&f.LogFile, "log", "", "write JSON logs to this file")
	fs.StringVar(&f.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.MetricsAddr, "metrics", "", "serve Prometheus metrics on this address")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	f.Args = fs.Args()
	if len(f.Args) > 1 {
		return nil, fmt.Errorf("expected at most one audio file, got %d", len(f.Args))
	}
	if _, err := visualizer.ParseView(f.View); err != nil {
		return nil, err
	}
	return f, nil
}

// Path is the audio file argument, or "".
func (f *Flags) Path() string {
	if len(f.Args) == 0 {
		return ""
	}
	return f.Args[0]
}

// InitialView is the parsed -view flag.
func (f *Flags) InitialView() visualizer.View {
	v, _ := visualizer.ParseView(f.View)
	return v
}

// Config loads the config file and applies explicitly set flags.
func (f *Flags) Config() (*config.Config, error) {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return nil, err
	}
	if f.set["loop"] {
		cfg.Audio.Loop = f.Loop
	}
	if f.set["bins"] {
		cfg.Audio.Bins = f.Bins
	}
	if f.set["log"] {
		cfg.Logging.File = f.LogFile
	}
	if f.set["log-level"] {
		cfg.Logging.Level = f.LogLevel
	}
	if f.set["metrics"] {
		cfg.Metrics.Listen = f.MetricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CheckSource rejects paths the capture source cannot open.
func CheckSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !capture.IsSupportedExt(ext) {
		return fmt.Errorf("unsupported format %s (supported: %s)", ext, capture.SupportedExtsList())
	}
	return nil
}

// Runtime carries the ambient services for one run.
type Runtime struct {
	Log     *zap.Logger
	Metrics *metrics.Metrics

	stops []func()
}

// Start sets up logging and, when configured, the metrics listener.
func Start(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	log, stop, err := logging.New(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{Log: log, Metrics: metrics.New(), stops: []func(){stop}}

	if cfg.Metrics.Listen != "" {
		ctx, cancel := context.WithCancel(ctx)
		rt.stops = append([]func(){cancel}, rt.stops...)
		if err := rt.Metrics.Serve(ctx, cfg.Metrics.Listen, log); err != nil {
			rt.Close()
			return nil, fmt.Errorf("metrics listener: %w", err)
		}
	}
	return rt, nil
}

// Close stops the metrics listener and flushes the log.
func (rt *Runtime) Close() {
	for _, stop := range rt.stops {
		stop()
	}
	rt.stops = nil
}

// Open builds a file-backed analyzer for path and connects it.
func Open(path string, cfg *config.Config, sched visualizer.Scheduler, rt *Runtime) (*visualizer.Analyzer, error) {
	src := capture.NewFileSource(path, capture.Options{
		SampleRate:    cfg.Audio.SampleRate,
		Bins:          cfg.Audio.Bins,
		BufferSeconds: cfg.Audio.BufferSeconds,
		KeepSeconds:   keepSeconds(cfg.Audio.KeepAfterDiscard),
		Loop:          cfg.Audio.Loop,
		Logger:        rt.Log,
	})

	an := visualizer.NewAnalyzer(src, sched, AnalyzerOptions(cfg),
		visualizer.WithInterval(cfg.Timing.TickInterval),
		visualizer.WithBacklogLimit(cfg.Timing.BacklogLimit),
		visualizer.WithLogger(rt.Log),
		visualizer.WithObserver(rt.Metrics),
	)
	if err := an.Connect(); err != nil {
		var connErr *visualizer.ConnectionError
		if errors.As(err, &connErr) {
			rt.Log.Error("capture connect failed", zap.String("source", connErr.Source), zap.Error(connErr.Err))
		}
		return nil, err
	}
	return an, nil
}

// keepSeconds maps a config value onto capture.Options, where 0 means
// the default rather than an empty backlog.
func keepSeconds(v float64) float64 {
	if v == 0 {
		return -1
	}
	return v
}

// AnalyzerOptions maps the config onto the analyzer's layout and views.
func AnalyzerOptions(cfg *config.Config) visualizer.Options {
	return visualizer.Options{
		PlotWidth:       cfg.Canvas.Width,
		PlotHeight:      cfg.Canvas.Height,
		NyquistHz:       cfg.NyquistHz(),
		SecondsPerPixel: cfg.Timing.SecondsPerPixel,
		LineWidth:       cfg.Line.Width,
		Waterfall: visualizer.Params{
			DBOffset: cfg.Waterfall.DBOffset,
			DBMax:    cfg.Waterfall.DBMax,
		},
		Line: visualizer.Params{
			DBOffset: cfg.Line.DBOffset,
			DBMax:    cfg.Line.DBMax,
		},
	}
}
