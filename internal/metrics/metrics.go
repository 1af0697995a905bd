// Package metrics defines the Prometheus collectors for upstream fetches and
// cache lookups and exposes an HTTP handler for scraping.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Cache lookup results.
const (
	ResultHit    = "hit"
	ResultMiss   = "miss"
	ResultShared = "shared"
)

// Metrics holds the collectors for one session. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	FetchTotal    *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	CacheLookups  *prometheus.CounterVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dexterm_fetch_total",
				Help: "Upstream fetches by kind (index, detail, move) and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dexterm_fetch_duration_seconds",
				Help:    "Upstream fetch latency in seconds.",
				Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"kind"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dexterm_cache_lookups_total",
				Help: "Cache lookups by cache (detail, move) and result (hit, miss, shared).",
			},
			[]string{"cache", "result"},
		),
	}
	m.registry.MustRegister(m.FetchTotal, m.FetchDuration, m.CacheLookups)
	return m
}

// ObserveFetch records one upstream fetch.
func (m *Metrics) ObserveFetch(kind string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.FetchTotal.WithLabelValues(kind, outcome).Inc()
	m.FetchDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveLookup records one cache lookup.
func (m *Metrics) ObserveLookup(cache, result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(cache, result).Inc()
}

// Handler returns the scrape handler for this session's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		logger.Info("metrics server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	return nil
}
