package capture

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// maxWindow caps how many samples one frame may consume. Frames read
// more than the FFT length while a backlog exists so consumption can
// catch up with capture.
const maxWindow = 1200

// analyzer turns raw samples into magnitude frames of a fixed bin count.
type analyzer struct {
	bins   int
	win    []float64 // Hamming window for the last size used
	signal []float64
}

func newAnalyzer(bins int) *analyzer {
	return &analyzer{bins: bins}
}

func (a *analyzer) fftSize() int { return 2 * a.bins }

// windowSize picks how many samples to consume given the unread count.
func (a *analyzer) windowSize(ready int) int {
	n := ready / 40
	hi := maxWindow
	if hi < a.fftSize() {
		hi = a.fftSize()
	}
	if n > hi {
		n = hi
	}
	if n < a.fftSize() {
		n = a.fftSize()
	}
	return n
}

// magnitudes applies a Hamming window over samples and returns |FFT| of
// the first 2*bins points, keeping bins values.
func (a *analyzer) magnitudes(samples []int16) []float64 {
	n := len(samples)
	if cap(a.signal) < n {
		a.signal = make([]float64, n)
	}
	sig := a.signal[:n]
	win := a.window(n)
	for i, s := range samples {
		sig[i] = float64(s) / 65535 * win[i]
	}

	size := a.fftSize()
	if n < size {
		padded := make([]float64, size)
		copy(padded, sig)
		sig = padded
	}
	spectrum := fft.FFTReal(sig[:size])

	out := make([]float64, a.bins)
	for i := range out {
		out[i] = cmplx.Abs(spectrum[i])
	}
	return out
}

// window returns the Hamming window of length n, rebuilding it only
// when the size changes.
func (a *analyzer) window(n int) []float64 {
	if len(a.win) != n {
		a.win = window.Hamming(n)
	}
	return a.win
}
