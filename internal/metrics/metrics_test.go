package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func gather(t *testing.T, m *Metrics) map[string]float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	out := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				out[mf.GetName()] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				out[mf.GetName()] = metric.GetGauge().GetValue()
			}
		}
	}
	return out
}

func TestObserverUpdatesCollectors(t *testing.T) {
	m := New()
	m.FrameRendered()
	m.FrameRendered()
	m.FrameSkipped()
	m.BacklogDiscarded(3)
	m.Backlog(0.75)

	got := gather(t, m)
	want := map[string]float64{
		"specgram_frames_rendered_total":           2,
		"specgram_frames_skipped_total":            1,
		"specgram_backlog_discards_total":          1,
		"specgram_backlog_discarded_seconds_total": 3,
		"specgram_backlog_seconds":                 0.75,
	}
	for name, v := range want {
		if got[name] != v {
			t.Errorf("%s = %v, want %v", name, got[name], v)
		}
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.FrameRendered()
	if got := gather(t, b)["specgram_frames_rendered_total"]; got != 0 {
		t.Fatalf("second registry saw %v frames", got)
	}
	var _ prometheus.Gatherer = a.Registry()
}

func TestHandlerServesTextFormat(t *testing.T) {
	m := New()
	m.FrameSkipped()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "specgram_frames_skipped_total 1") {
		t.Fatalf("body missing counter:\n%s", body)
	}
}

func TestServeRejectsBadAddress(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := New().Serve(ctx, "not-an-address", zap.NewNop()); err == nil {
		t.Fatal("Serve() accepted a bad address")
	}
}
