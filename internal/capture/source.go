// Package capture provides a live-style audio source for the visualizer.
// It decodes a file, mixes it to mono, resamples it to a fixed rate and
// feeds a ring buffer at real-time pace, so the analyzer sees the same
// backlog behavior it would see from a capture device.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/olivier-w/specgram/internal/visualizer"
)

const (
	DefaultSampleRate    = 44100
	DefaultBins          = 512
	DefaultBufferSeconds = 20.0
	DefaultKeepSeconds   = 0.5

	feedInterval = 10 * time.Millisecond
)

// Options configures a file-backed source.
type Options struct {
	SampleRate    int
	Bins          int
	BufferSeconds float64
	KeepSeconds   float64 // backlog kept by DiscardBacklog; 0 means DefaultKeepSeconds, negative keeps none
	Loop          bool    // rewind at end of file
	Logger        *zap.Logger
}

func (o *Options) applyDefaults() {
	if o.SampleRate <= 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.Bins <= 0 {
		o.Bins = DefaultBins
	}
	if o.BufferSeconds <= 0 {
		o.BufferSeconds = DefaultBufferSeconds
	}
	switch {
	case o.KeepSeconds == 0:
		o.KeepSeconds = DefaultKeepSeconds
	case o.KeepSeconds < 0:
		o.KeepSeconds = 0
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// FileSource plays an audio file into a ring buffer in real time and
// serves FFT magnitude frames from it.
type FileSource struct {
	path string
	opts Options
	name string
	log  *zap.Logger

	ring *ring
	an   *analyzer

	mu     sync.Mutex
	file   *os.File
	dec    *resampler
	cancel context.CancelFunc
	done   chan struct{}
	eof    bool
	err    error
}

// NewFileSource prepares a source for path. Nothing is opened until Connect.
func NewFileSource(path string, opts Options) *FileSource {
	opts.applyDefaults()
	return &FileSource{
		path: path,
		opts: opts,
		name: path,
		log:  opts.Logger,
		ring: newRing(int(float64(opts.SampleRate) * opts.BufferSeconds)),
		an:   newAnalyzer(opts.Bins),
	}
}

// Connect opens the file and starts feeding the ring buffer. Failures are
// returned as *visualizer.ConnectionError.
func (s *FileSource) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return nil
	}
	file, dec, err := s.open()
	if err != nil {
		return &visualizer.ConnectionError{Source: s.path, Err: err}
	}
	s.file = file
	s.dec = dec
	s.name = displayName(s.path)
	s.ring.Clear()

	session := uuid.NewString()
	s.log = s.opts.Logger.With(zap.String("session", session), zap.String("source", s.name))
	s.log.Info("capture connected",
		zap.String("path", s.path),
		zap.Int("source_rate", dec.sourceRate()),
		zap.Int("rate", s.opts.SampleRate),
		zap.Int("bins", s.opts.Bins),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.feed(ctx, s.done)
	return nil
}

func (s *FileSource) open() (*os.File, *resampler, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, nil, err
	}
	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if dec.SampleRate() <= 0 {
		f.Close()
		return nil, nil, fmt.Errorf("invalid sample rate %d", dec.SampleRate())
	}
	rs, err := newResampler(dec, s.opts.SampleRate)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, rs, nil
}

// feed pushes decoded samples into the ring at the output sample rate.
func (s *FileSource) feed(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(feedInterval)
	defer ticker.Stop()

	rate := float64(s.opts.SampleRate)
	start := time.Now()
	var written int64
	buf := make([]int16, s.opts.SampleRate/10)

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			due := int64(now.Sub(start).Seconds()*rate) - written
			for due > 0 {
				chunk := buf
				if int64(len(chunk)) > due {
					chunk = chunk[:due]
				}
				n, err := s.dec.Read(chunk)
				if n > 0 {
					s.ring.Write(chunk[:n])
					written += int64(n)
					due -= int64(n)
				}
				if err == nil {
					continue
				}
				if !s.handleEnd(err) {
					return
				}
				// Rewound; resync pacing so the gap is not replayed at once.
				start = now
				written = 0
				break
			}
		}
	}
}

// handleEnd processes a decoder error, reporting whether feeding should
// continue.
func (s *FileSource) handleEnd(err error) bool {
	if !errors.Is(err, io.EOF) {
		s.log.Error("capture decode failed", zap.Error(err))
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return false
	}
	if !s.opts.Loop {
		s.log.Info("capture reached end of file")
		s.mu.Lock()
		s.eof = true
		s.mu.Unlock()
		return false
	}

	file, dec, openErr := s.open()
	if openErr != nil {
		s.log.Error("capture rewind failed", zap.Error(openErr))
		s.mu.Lock()
		s.err = openErr
		s.mu.Unlock()
		return false
	}
	s.mu.Lock()
	old := s.file
	s.file = file
	s.dec = dec
	s.mu.Unlock()
	old.Close()
	s.log.Debug("capture looped")
	return true
}

// BacklogSeconds reports how much unread audio is buffered.
func (s *FileSource) BacklogSeconds() float64 {
	return float64(s.ring.Ready()) / float64(s.opts.SampleRate)
}

// DiscardBacklog drops all but the newest KeepSeconds of unread audio.
func (s *FileSource) DiscardBacklog() {
	s.ring.Keep(int(s.opts.KeepSeconds * float64(s.opts.SampleRate)))
}

// Read consumes one analysis window and returns Bins magnitudes, or nil
// when nothing is buffered.
func (s *FileSource) Read() []float64 {
	ready := s.ring.Ready()
	if ready == 0 {
		return nil
	}
	samples := s.ring.Take(s.an.windowSize(ready))
	return s.an.magnitudes(samples)
}

// SourceName returns the track title or file name.
func (s *FileSource) SourceName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Finished reports whether the feed stopped at end of file.
func (s *FileSource) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eof
}

// Err returns the decode error that stopped the feed, if any.
func (s *FileSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops the feed goroutine and releases the file.
func (s *FileSource) Close() error {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if s.file != nil {
		err = s.file.Close()
		s.file = nil
	}
	s.log.Info("capture closed")
	return err
}
