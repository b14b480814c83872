package visualizer

import "fmt"

// Smooth blends incoming into prev, weighting the new frame 2:1.
// A nil prev returns a copy of incoming. prev is updated in place.
func Smooth(prev, incoming []float64) ([]float64, error) {
	if prev == nil {
		out := make([]float64, len(incoming))
		copy(out, incoming)
		return out, nil
	}
	if len(prev) != len(incoming) {
		return prev, fmt.Errorf("%w: have %d bins, got %d", ErrMalformedFrame, len(prev), len(incoming))
	}
	for i, v := range incoming {
		prev[i] = (prev[i] + 2*v) / 3
	}
	return prev, nil
}

// Smoother keeps the running average shown by the line plot.
type Smoother struct {
	avg []float64
}

func (s *Smoother) Update(frame []float64) ([]float64, error) {
	avg, err := Smooth(s.avg, frame)
	if err != nil {
		return nil, err
	}
	s.avg = avg
	return avg, nil
}

// Reset drops the history so the next frame bootstraps the average.
func (s *Smoother) Reset() { s.avg = nil }

func (s *Smoother) Values() []float64 { return s.avg }
