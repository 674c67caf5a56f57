package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vaccine_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	RegistryStates prometheus.Gauge
	PageRenders    *prometheus.CounterVec // labels: outcome={ok,unknown_state,artifact_error}

	// Artifact metrics.
	ArtifactLoads        *prometheus.CounterVec   // labels: kind={chart,deaths,hosp}, outcome={ok,not_found,corrupt,error}
	ArtifactLoadDuration *prometheus.HistogramVec // labels: kind
	ArtifactCache        *prometheus.CounterVec   // labels: kind, result={hit,miss}

	HTTPRequestDuration *prometheus.HistogramVec // labels: route, code
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewMetricsWith(prometheus.NewRegistry())
}

// NewMetricsWith creates the dashboard metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RegistryStates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_states",
			Help:      "Number of states in the loaded registry.",
		}),
		PageRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_renders_total",
			Help:      "Dashboard page renders by outcome.",
		}, []string{"outcome"}),
		ArtifactLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_loads_total",
			Help:      "Artifact reads from disk by kind and outcome.",
		}, []string{"kind", "outcome"}),
		ArtifactLoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "artifact_load_duration_seconds",
			Help:      "Duration of an artifact read and validation.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"kind"}),
		ArtifactCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_cache_total",
			Help:      "Artifact cache lookups by kind and result.",
		}, []string{"kind", "result"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route pattern and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}

	reg.MustRegister(
		m.RegistryStates,
		m.PageRenders,
		m.ArtifactLoads,
		m.ArtifactLoadDuration,
		m.ArtifactCache,
		m.HTTPRequestDuration,
	)

	return m
}
