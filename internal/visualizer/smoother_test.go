package visualizer

import (
	"errors"
	"math"
	"testing"
)

func TestSmoothBootstrapsFromFirstFrame(t *testing.T) {
	in := []float64{0, 1.5, 42}
	got, err := Smooth(nil, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range in {
		if got[i] != in[i] {
			t.Fatalf("index %d: got %v, want %v", i, got[i], in[i])
		}
	}
	got[0] = 99
	if in[0] != 0 {
		t.Fatal("expected bootstrap to copy the incoming frame")
	}
}

func TestSmoothWeightsNewestTwoToOne(t *testing.T) {
	prev := []float64{3, 0, 10, 1e6}
	in := []float64{0, 3, 10, 1}
	want := make([]float64, len(prev))
	for i := range prev {
		want[i] = (prev[i] + 2*in[i]) / 3
	}

	got, err := Smooth(prev, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSmoothRejectsLengthMismatch(t *testing.T) {
	_, err := Smooth([]float64{1, 2}, []float64{1, 2, 3})
	if !errors.Is(err, ErrMalformedFrame) {
		t.Fatalf("expected ErrMalformedFrame, got %v", err)
	}
}

func TestSmootherResetBootstrapsAgain(t *testing.T) {
	var s Smoother
	if _, err := s.Update([]float64{9, 9}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Update([]float64{0, 0}); err != nil {
		t.Fatal(err)
	}
	if got := s.Values()[0]; math.Abs(got-3) > 1e-9 {
		t.Fatalf("expected averaged value 3, got %v", got)
	}

	s.Reset()
	if s.Values() != nil {
		t.Fatal("expected reset to clear the average")
	}
	got, _ := s.Update([]float64{5, 6, 7})
	if len(got) != 3 || got[2] != 7 {
		t.Fatalf("expected new session to bootstrap with a different bin count, got %v", got)
	}
}
