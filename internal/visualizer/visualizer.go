// Package visualizer turns a stream of FFT magnitude frames into a
// scrolling waterfall image, a smoothed line plot and a ruler overlay.
//
// Everything in this package runs on the host's event loop. Nothing here
// takes a lock; hosts must not call into an Analyzer from more than one
// goroutine at a time.
package visualizer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MagnitudeSource supplies FFT magnitude frames. Read must not block.
type MagnitudeSource interface {
	Connect() error
	BacklogSeconds() float64
	DiscardBacklog()
	Read() []float64
	SourceName() string
	Close() error
}

// Scheduler runs fn once after d. Implementations call fn on the same
// goroutine that drives the rest of the host.
type Scheduler interface {
	Schedule(d time.Duration, fn func())
}

// View selects one of the two renderings.
type View int

const (
	ViewWaterfall View = iota
	ViewLine
)

func (v View) String() string {
	switch v {
	case ViewWaterfall:
		return "waterfall"
	case ViewLine:
		return "fft"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

// ParseView accepts the names printed by String.
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "waterfall", "":
		return ViewWaterfall, nil
	case "fft", "line":
		return ViewLine, nil
	}
	return ViewWaterfall, fmt.Errorf("unknown view %q (want waterfall or fft)", s)
}

// Next cycles to the other view.
func (v View) Next() View {
	if v == ViewWaterfall {
		return ViewLine
	}
	return ViewWaterfall
}

// ErrMalformedFrame reports an empty frame or one whose bin count differs
// from the session's.
var ErrMalformedFrame = errors.New("malformed frame")

// ConnectionError means the capture session could not be established.
type ConnectionError struct {
	Source string
	Err    error
}

func (e *ConnectionError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("connecting capture source: %v", e.Err)
	}
	return fmt.Sprintf("connecting capture source %s: %v", e.Source, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
