package visualizer

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTickInterval = 25 * time.Millisecond
	DefaultBacklogLimit = 2.5 // seconds
)

// State is the run state of a Driver.
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Observer receives per-tick accounting from a Driver.
type Observer interface {
	FrameRendered()
	FrameSkipped()
	BacklogDiscarded(seconds float64)
	Backlog(seconds float64)
}

type nopObserver struct{}

func (nopObserver) FrameRendered()           {}
func (nopObserver) FrameSkipped()            {}
func (nopObserver) BacklogDiscarded(float64) {}
func (nopObserver) Backlog(float64)          {}

// Driver pulls one frame per tick from a MagnitudeSource while running.
type Driver struct {
	src          MagnitudeSource
	sched        Scheduler
	consume      func(frame []float64) error
	onStart      func()
	repaint      func()
	interval     time.Duration
	backlogLimit float64
	log          *zap.Logger
	obs          Observer

	state State
	gen   uint64
	bins  int
}

type DriverOption func(*Driver)

func WithInterval(d time.Duration) DriverOption {
	return func(dr *Driver) {
		if d > 0 {
			dr.interval = d
		}
	}
}

// WithBacklogLimit sets how many seconds of unread audio are tolerated
// before the source is told to discard its backlog.
func WithBacklogLimit(seconds float64) DriverOption {
	return func(dr *Driver) {
		if seconds > 0 {
			dr.backlogLimit = seconds
		}
	}
}

func WithLogger(l *zap.Logger) DriverOption {
	return func(dr *Driver) {
		if l != nil {
			dr.log = l
		}
	}
}

func WithObserver(o Observer) DriverOption {
	return func(dr *Driver) {
		if o != nil {
			dr.obs = o
		}
	}
}

// NewDriver creates a stopped driver. consume receives every accepted
// frame; onStart, if non-nil, runs on each Stopped→Running transition.
func NewDriver(src MagnitudeSource, sched Scheduler, consume func([]float64) error, onStart func(), opts ...DriverOption) *Driver {
	d := &Driver{
		src:          src,
		sched:        sched,
		consume:      consume,
		onStart:      onStart,
		interval:     DefaultTickInterval,
		backlogLimit: DefaultBacklogLimit,
		log:          zap.NewNop(),
		obs:          nopObserver{},
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// OnRepaint registers the callback run after each rendered frame.
func (d *Driver) OnRepaint(fn func()) { d.repaint = fn }

func (d *Driver) State() State { return d.state }

func (d *Driver) Interval() time.Duration { return d.interval }

// Bins is the session's established bin count, 0 before the first frame.
func (d *Driver) Bins() int { return d.bins }

func (d *Driver) Start() {
	if d.state == Running {
		return
	}
	d.state = Running
	d.gen++
	if d.onStart != nil {
		d.onStart()
	}
	d.log.Info("driver started", zap.Duration("interval", d.interval))
	d.schedule(d.gen)
}

// Stop takes effect at the next scheduled tick, which returns without
// doing any work.
func (d *Driver) Stop() {
	if d.state == Stopped {
		return
	}
	d.state = Stopped
	d.log.Info("driver stopped")
}

func (d *Driver) schedule(gen uint64) {
	d.sched.Schedule(d.interval, func() { d.tick(gen) })
}

func (d *Driver) tick(gen uint64) {
	if d.state != Running || gen != d.gen {
		return
	}
	if err := d.Step(); err != nil {
		d.log.Debug("tick skipped", zap.Error(err))
	}
	d.schedule(gen)
}

// Step runs one tick's work regardless of the run state. A skipped frame
// is reported as ErrMalformedFrame and leaves every surface untouched.
func (d *Driver) Step() error {
	backlog := d.src.BacklogSeconds()
	d.obs.Backlog(backlog)
	if backlog > d.backlogLimit {
		d.src.DiscardBacklog()
		d.obs.BacklogDiscarded(backlog)
		d.log.Info("capture backlog discarded",
			zap.Float64("backlog_seconds", backlog),
			zap.Float64("limit_seconds", d.backlogLimit))
	}

	frame := d.src.Read()
	if len(frame) == 0 {
		d.obs.FrameSkipped()
		return fmt.Errorf("%w: empty read", ErrMalformedFrame)
	}
	if d.bins != 0 && len(frame) != d.bins {
		d.obs.FrameSkipped()
		return fmt.Errorf("%w: have %d bins, got %d", ErrMalformedFrame, d.bins, len(frame))
	}
	d.bins = len(frame)

	if err := d.consume(frame); err != nil {
		d.obs.FrameSkipped()
		return err
	}
	d.obs.FrameRendered()
	if d.repaint != nil {
		d.repaint()
	}
	return nil
}
