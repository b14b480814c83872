package capture

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/olivier-w/specgram/internal/visualizer"
)

func writeToneWAV(t *testing.T, path string, rate int, seconds float64) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	defer f.Close()

	n := int(float64(rate) * seconds)
	data := make([]int, n)
	for i := range data {
		data[i] = int(12000 * math.Sin(2*math.Pi*1000*float64(i)/float64(rate)))
	}

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestConnectMissingFileIsConnectionError(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "missing.wav"), Options{})
	err := src.Connect()
	var connErr *visualizer.ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("Connect() error = %v, want *ConnectionError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Connect() error does not wrap os.ErrNotExist: %v", err)
	}
}

func TestConnectUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := NewFileSource(path, Options{}).Connect()
	var connErr *visualizer.ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("Connect() error = %v, want *ConnectionError", err)
	}
}

func TestFileSourceFeedsFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeToneWAV(t, path, 22050, 2)

	src := NewFileSource(path, Options{Bins: 256})
	if err := src.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer src.Close()

	if got := src.SourceName(); got != "tone" {
		t.Fatalf("SourceName() = %q, want %q", got, "tone")
	}

	waitFor(t, "backlog", func() bool { return src.BacklogSeconds() > 0.1 })

	frame := src.Read()
	if len(frame) != 256 {
		t.Fatalf("len(Read()) = %d, want 256", len(frame))
	}
	peak := 0
	for i, m := range frame {
		if m > frame[peak] {
			peak = i
		}
	}
	// 1 kHz at 44.1 kHz with a 512-point FFT lands near bin 11.6.
	if peak < 10 || peak > 13 {
		t.Fatalf("peak bin = %d, want about 12", peak)
	}
}

func TestDiscardBacklogKeepsNewest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeToneWAV(t, path, 44100, 2)

	src := NewFileSource(path, Options{KeepSeconds: 0.05})
	if err := src.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer src.Close()

	waitFor(t, "backlog", func() bool { return src.BacklogSeconds() > 0.2 })
	src.DiscardBacklog()
	// The feed may have added a tick's worth after the discard.
	if got := src.BacklogSeconds(); got > 0.15 {
		t.Fatalf("BacklogSeconds() after discard = %v", got)
	}
}

func TestDiscardBacklogDefaultsToHalfSecond(t *testing.T) {
	src := NewFileSource("unused.wav", Options{})
	src.ring.Write(make([]int16, 3*DefaultSampleRate))

	src.DiscardBacklog()
	if got := src.BacklogSeconds(); got != DefaultKeepSeconds {
		t.Fatalf("BacklogSeconds() after discard = %v, want %v", got, DefaultKeepSeconds)
	}
}

func TestDiscardBacklogNegativeKeepsNothing(t *testing.T) {
	src := NewFileSource("unused.wav", Options{KeepSeconds: -1})
	src.ring.Write(make([]int16, DefaultSampleRate))

	src.DiscardBacklog()
	if got := src.BacklogSeconds(); got != 0 {
		t.Fatalf("BacklogSeconds() after discard = %v, want 0", got)
	}
}

func TestReadEmptyReturnsNil(t *testing.T) {
	src := NewFileSource("unused.wav", Options{})
	if frame := src.Read(); frame != nil {
		t.Fatalf("Read() on empty buffer = %v, want nil", frame)
	}
}

func TestFileSourceFinishesAtEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.wav")
	writeToneWAV(t, path, 44100, 0.05)

	src := NewFileSource(path, Options{})
	if err := src.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	waitFor(t, "end of file", src.Finished)
	if err := src.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestFileSourceLoopsAtEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.wav")
	writeToneWAV(t, path, 44100, 0.1)

	src := NewFileSource(path, Options{Loop: true})
	if err := src.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer src.Close()

	waitFor(t, "backlog past three file lengths", func() bool { return src.BacklogSeconds() > 0.3 })
	if src.Finished() {
		t.Fatal("Finished() = true for a looping source")
	}
	if err := src.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
}
