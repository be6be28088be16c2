// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	InteractionsTracked prometheus.Counter
	PipelineCycles      *prometheus.CounterVec
	PatternsDetected    prometheus.Counter
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry, so tests can build as
// many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		InteractionsTracked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "behavior_interactions_tracked_total",
			Help: "Interactions accepted by the track endpoint.",
		}),
		PipelineCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "behavior_pipeline_cycles_total",
			Help: "Pattern pipeline cycles by result.",
		}, []string{"result"}),
		PatternsDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "behavior_pipeline_patterns_detected_total",
			Help: "Patterns detected by the pattern pipeline.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "behavior_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "behavior_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(
		m.InteractionsTracked,
		m.PipelineCycles,
		m.PatternsDetected,
		m.HTTPRequests,
		m.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
