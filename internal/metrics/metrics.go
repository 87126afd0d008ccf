// Package metrics exposes Prometheus instruments for the distribution engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "census_map"

// Metrics holds every instrument on a private registry. All methods are
// safe on a nil receiver so components can run without instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	densityFetches   *prometheus.CounterVec
	inferenceLatency prometheus.Histogram
	boundaryLoads    *prometheus.CounterVec
	staleDiscards    prometheus.Counter
	activeSessions   prometheus.Gauge
	breakerState     prometheus.Gauge
}

// New builds and registers the instruments.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		densityFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "density_fetch_total",
			Help:      "Density fetches by origin (remote|fallback) and fallback reason.",
		}, []string{"origin", "reason"}),
		inferenceLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_duration_seconds",
			Help:      "Latency of remote inference calls.",
			Buckets:   []float64{.25, .5, 1, 2, 4, 8, 16, 32},
		}),
		boundaryLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "boundary_load_total",
			Help:      "Boundary dataset loads by outcome (primary|alternate|failed).",
		}, []string{"outcome"}),
		staleDiscards: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_density_discard_total",
			Help:      "Density responses dropped because a newer request was issued.",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Open dashboard sessions.",
		}),
		breakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inference_breaker_state",
			Help:      "Inference circuit breaker state (0 closed, 1 open, 2 half-open).",
		}),
	}

	m.registry.MustRegister(
		m.densityFetches,
		m.inferenceLatency,
		m.boundaryLoads,
		m.staleDiscards,
		m.activeSessions,
		m.breakerState,
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// DensityFetched counts one density fetch outcome.
func (m *Metrics) DensityFetched(origin, reason string) {
	if m == nil {
		return
	}
	m.densityFetches.WithLabelValues(origin, reason).Inc()
}

// InferenceObserved records one remote call latency in seconds.
func (m *Metrics) InferenceObserved(seconds float64) {
	if m == nil {
		return
	}
	m.inferenceLatency.Observe(seconds)
}

// BoundaryLoaded counts one boundary load outcome.
func (m *Metrics) BoundaryLoaded(outcome string) {
	if m == nil {
		return
	}
	m.boundaryLoads.WithLabelValues(outcome).Inc()
}

// StaleDiscarded counts a superseded density response.
func (m *Metrics) StaleDiscarded() {
	if m == nil {
		return
	}
	m.staleDiscards.Inc()
}

// SessionOpened increments the active session gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

// SessionClosed decrements the active session gauge.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

// BreakerState records the numeric breaker state.
func (m *Metrics) BreakerState(state int) {
	if m == nil {
		return
	}
	m.breakerState.Set(float64(state))
}
