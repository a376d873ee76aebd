// Package metrics holds the Prometheus collectors for the prompt service on a
// private registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "alchemy"

// Metrics bundles every collector the service records.
type Metrics struct {
	registry *prometheus.Registry

	Requests      *prometheus.CounterVec
	CacheLookups  *prometheus.CounterVec
	ProviderCalls *prometheus.CounterVec
	Improvement   prometheus.Histogram
	Duration      *prometheus.HistogramVec
}

// New creates and registers the collectors. Go runtime and process collectors
// are included so /metrics is useful on its own.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Analyze and optimize requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
		ProviderCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enhanced_analysis_total",
			Help:      "Enhanced analysis calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		Improvement: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "estimated_improvement_percent",
			Help:      "Estimated improvement of optimized prompts.",
			Buckets:   prometheus.LinearBuckets(0, 10, 10),
		}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Wall time per operation, cache lookups included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	m.registry.MustRegister(
		m.Requests,
		m.CacheLookups,
		m.ProviderCalls,
		m.Improvement,
		m.Duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
