package server

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/treematch/pkg/observability"
)

// =============================================================================
// Metric Definitions
// =============================================================================

const metricsNamespace = "treematch"

// Metrics holds the Prometheus collectors of one server. It also implements
// the observability hooks, so solver and cache events emitted by the
// pipeline land in the same registry.
//
// All operations are thread-safe.
type Metrics struct {
	// SolveDuration measures solver wall time.
	// Labels: mode (embedding, isomorphism, paths), strategy
	SolveDuration *prometheus.HistogramVec

	// SolveErrors counts failed solves by mode.
	SolveErrors *prometheus.CounterVec

	// RequestsTotal counts HTTP requests by route pattern and status code.
	RequestsTotal *prometheus.CounterVec

	// CacheEvents counts cache lookups and writes.
	// Labels: key_type (result, paths), event (hit, miss, set)
	CacheEvents *prometheus.CounterVec

	// MatchValue records the value of successful solves.
	MatchValue *prometheus.HistogramVec

	// SolvesInFlight is the number of solves currently running.
	SolvesInFlight prometheus.Gauge

	// RenderDuration measures artifact rendering, labeled by outcome.
	RenderDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SolveDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "solve_duration_seconds",
			Help:      "Time spent solving a comparison.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"mode", "strategy"}),
		SolveErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "solve_errors_total",
			Help:      "Comparisons that failed.",
		}, []string{"mode"}),
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		CacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_events_total",
			Help:      "Result cache hits, misses and writes.",
		}, []string{"key_type", "event"}),
		MatchValue: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "match_value",
			Help:      "Value of solved comparisons.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}, []string{"mode"}),
		SolvesInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "solves_in_flight",
			Help:      "Comparisons currently being solved.",
		}),
		RenderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering output formats.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
}

// =============================================================================
// Observability Hooks
// =============================================================================

func (m *Metrics) OnSolveStart(context.Context, string, int, int) {
	m.SolvesInFlight.Inc()
}

func (m *Metrics) OnSolveComplete(_ context.Context, mode, strategy string, value float64, d time.Duration, err error) {
	m.SolvesInFlight.Dec()
	if err != nil {
		m.SolveErrors.WithLabelValues(mode).Inc()
		return
	}
	m.SolveDuration.WithLabelValues(mode, strategy).Observe(d.Seconds())
	m.MatchValue.WithLabelValues(mode).Observe(value)
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.RenderDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.CacheEvents.WithLabelValues(keyType, "set").Inc()
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
)
