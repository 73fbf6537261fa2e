// Package prometheus registers and serves the service metrics.  Everything
// lives in one private registry so tests can build isolated instances and
// the default global registry stays untouched.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every instrument the service records.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP layer.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Descriptor pipeline.
	FeaturizeTotal    *prometheus.CounterVec
	FeaturizeDuration prometheus.Histogram
	StructureSites    prometheus.Histogram

	// Prediction pipeline.
	PredictTotal    *prometheus.CounterVec
	PredictDuration *prometheus.HistogramVec
}

var (
	httpDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	pipelineDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120}
	siteCountBuckets        = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500}
)

// NewMetrics builds and registers all instruments under the given
// namespace.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: namespace}),
		prometheus.NewGoCollector(),
	)

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status_code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration",
			Buckets:   httpDurationBuckets,
		}, []string{"method", "path"}),
		FeaturizeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "featurize_total",
			Help:      "Descriptor matrix assemblies by outcome",
		}, []string{"status"}),
		FeaturizeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "featurize_duration_seconds",
			Help:      "Descriptor matrix assembly duration",
			Buckets:   pipelineDurationBuckets,
		}),
		StructureSites: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "structure_sites",
			Help:      "Sites per processed structure",
			Buckets:   siteCountBuckets,
		}),
		PredictTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predict_total",
			Help:      "Precursor predictions by type and outcome",
		}, []string{"precursor", "status"}),
		PredictDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "predict_duration_seconds",
			Help:      "Precursor prediction duration",
			Buckets:   pipelineDurationBuckets,
		}, []string{"precursor"}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.FeaturizeTotal,
		m.FeaturizeDuration,
		m.StructureSites,
		m.PredictTotal,
		m.PredictDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
