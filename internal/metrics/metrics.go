// Package metrics exports analyzer counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics holds the collectors for one analyzer. It satisfies the
// driver's Observer hook.
type Metrics struct {
	registry *prometheus.Registry

	framesRendered  prometheus.Counter
	framesSkipped   prometheus.Counter
	backlogDiscards prometheus.Counter
	discardedAudio  prometheus.Counter
	backlogSeconds  prometheus.Gauge
}

// New registers the collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		framesRendered: f.NewCounter(prometheus.CounterOpts{
			Name: "specgram_frames_rendered_total",
			Help: "Frames drawn into the waterfall and line views",
		}),
		framesSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "specgram_frames_skipped_total",
			Help: "Ticks skipped because the frame was empty or malformed",
		}),
		backlogDiscards: f.NewCounter(prometheus.CounterOpts{
			Name: "specgram_backlog_discards_total",
			Help: "Times buffered audio was dropped to catch up",
		}),
		discardedAudio: f.NewCounter(prometheus.CounterOpts{
			Name: "specgram_backlog_discarded_seconds_total",
			Help: "Seconds of backlog present when a discard happened",
		}),
		backlogSeconds: f.NewGauge(prometheus.GaugeOpts{
			Name: "specgram_backlog_seconds",
			Help: "Unread audio buffered at the last tick",
		}),
	}
}

func (m *Metrics) FrameRendered() { m.framesRendered.Inc() }
func (m *Metrics) FrameSkipped()  { m.framesSkipped.Inc() }

func (m *Metrics) BacklogDiscarded(seconds float64) {
	m.backlogDiscards.Inc()
	m.discardedAudio.Add(seconds)
}

func (m *Metrics) Backlog(seconds float64) { m.backlogSeconds.Set(seconds) }

// Registry exposes the collectors, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled. It returns once
// the listener is bound so callers see address errors immediately.
func (m *Metrics) Serve(ctx context.Context, addr string, log *zap.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", zap.Error(err))
		}
	}()

	log.Info("metrics listening", zap.String("addr", ln.Addr().String()))
	return nil
}
