package capture

import (
	"io"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/resample"
)

// resampler converts a mono stream to a fixed output rate through a
// polyphase anti-aliasing filter. Equal rates pass straight through.
type resampler struct {
	src     monoDecoder
	srcRate int
	dstRate int

	poly    *resample.Resampler // nil for passthrough
	chunk   []int16
	in      []float64
	pending []float64 // filtered output not yet handed out
	err     error
}

func newResampler(src monoDecoder, rate int) (*resampler, error) {
	r := &resampler{
		src:     src,
		srcRate: src.SampleRate(),
		dstRate: rate,
		chunk:   make([]int16, 2048),
	}
	if r.srcRate == r.dstRate {
		return r, nil
	}
	poly, err := resample.NewForRates(float64(r.srcRate), float64(r.dstRate))
	if err != nil {
		return nil, err
	}
	r.poly = poly
	return r, nil
}

func (r *resampler) SampleRate() int { return r.dstRate }

func (r *resampler) sourceRate() int { return r.srcRate }

func (r *resampler) Read(dst []int16) (int, error) {
	if r.poly == nil {
		return r.src.Read(dst)
	}

	empty := 0
	for len(r.pending) < len(dst) && r.err == nil {
		got, err := r.src.Read(r.chunk)
		if got > 0 {
			r.process(r.chunk[:got])
			empty = 0
		} else if err == nil {
			empty++
			if empty > 100 {
				err = io.ErrNoProgress
			}
		}
		r.err = err
	}

	n := copy16(dst, r.pending)
	r.pending = r.pending[n:]
	if n == 0 {
		return 0, r.err
	}
	return n, nil
}

func (r *resampler) process(samples []int16) {
	if cap(r.in) < len(samples) {
		r.in = make([]float64, len(samples))
	}
	in := r.in[:len(samples)]
	for i, s := range samples {
		in[i] = float64(s)
	}
	out := r.poly.Process(in)
	if len(r.pending) == 0 {
		r.pending = out
		return
	}
	r.pending = append(r.pending, out...)
}

// copy16 rounds and saturates src into dst, returning the count copied.
func copy16(dst []int16, src []float64) int {
	n := min(len(dst), len(src))
	for i := range n {
		v := math.Round(src[i])
		switch {
		case v > math.MaxInt16:
			v = math.MaxInt16
		case v < math.MinInt16:
			v = math.MinInt16
		}
		dst[i] = int16(v)
	}
	return n
}
