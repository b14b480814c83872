package capture

import (
	"math"
	"testing"
)

func TestWindowSizeAdaptsToBacklog(t *testing.T) {
	a := newAnalyzer(512)
	tests := []struct {
		ready, want int
	}{
		{ready: 0, want: 1024},
		{ready: 1024, want: 1024},
		{ready: 44100, want: 1102},
		{ready: 441000, want: 1200},
	}
	for _, tt := range tests {
		if got := a.windowSize(tt.ready); got != tt.want {
			t.Errorf("windowSize(%d) = %d, want %d", tt.ready, got, tt.want)
		}
	}

	// A larger FFT raises the cap instead of truncating the transform.
	big := newAnalyzer(1024)
	if got := big.windowSize(441000); got != 2048 {
		t.Fatalf("windowSize with 1024 bins = %d, want 2048", got)
	}
}

func TestMagnitudesPeakAtToneBin(t *testing.T) {
	const bins = 512
	a := newAnalyzer(bins)
	freq := 64 * float64(DefaultSampleRate) / (2 * bins)

	samples := make([]int16, 1102)
	for i := range samples {
		samples[i] = int16(16000 * math.Sin(2*math.Pi*freq*float64(i)/DefaultSampleRate))
	}

	mags := a.magnitudes(samples)
	if len(mags) != bins {
		t.Fatalf("len(magnitudes) = %d, want %d", len(mags), bins)
	}
	peak := 0
	for i, m := range mags {
		if m > mags[peak] {
			peak = i
		}
	}
	if peak != 64 {
		t.Fatalf("peak bin = %d, want 64", peak)
	}
}

func TestMagnitudesSilence(t *testing.T) {
	a := newAnalyzer(16)
	for _, m := range a.magnitudes(make([]int16, 32)) {
		if m != 0 {
			t.Fatalf("silence produced magnitude %v", m)
		}
	}
}

func TestWindowKeepsOnlyLatestSize(t *testing.T) {
	a := newAnalyzer(512)
	first := a.window(1100)
	if len(first) != 1100 {
		t.Fatalf("len(window(1100)) = %d", len(first))
	}
	if again := a.window(1100); &again[0] != &first[0] {
		t.Fatal("window(1100) rebuilt for an unchanged size")
	}

	next := a.window(1150)
	if len(next) != 1150 || len(a.win) != 1150 {
		t.Fatalf("window(1150) len = %d, cached len = %d", len(next), len(a.win))
	}
	// Hamming windows are symmetric with ends at 0.08.
	if math.Abs(next[0]-0.08) > 1e-9 || math.Abs(next[0]-next[len(next)-1]) > 1e-9 {
		t.Fatalf("window ends = %v, %v", next[0], next[len(next)-1])
	}
}
