// Package metrics owns the Prometheus registry of a process.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Metrics groups the collectors shared by the services. All record methods
// accept a nil receiver so components can run without metrics in tests.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
	infraFaults      *prometheus.CounterVec
	eventsPublished  *prometheus.CounterVec
	eventsDropped    *prometheus.CounterVec
	messagesConsumed *prometheus.CounterVec
}

// New creates a registry with the Go and process collectors plus the
// storefront metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by result (hit or miss).",
		}, []string{"result"}),
		infraFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "infra_faults_total",
			Help:      "Absorbed faults of best-effort dependencies.",
		}, []string{"component", "op"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events handed to the bus or the fallback log.",
		}, []string{"event", "sink"}),
		eventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Domain events lost, by reason.",
		}, []string{"event", "reason"}),
		messagesConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Bus messages handled by the indexer.",
		}, []string{"topic", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.cacheLookups,
		m.infraFaults,
		m.eventsPublished,
		m.eventsDropped,
		m.messagesConsumed,
	)

	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) InfraFault(component, op string) {
	if m == nil {
		return
	}
	m.infraFaults.WithLabelValues(component, op).Inc()
}

func (m *Metrics) EventPublished(event, sink string) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(event, sink).Inc()
}

func (m *Metrics) EventDropped(event, reason string) {
	if m == nil {
		return
	}
	m.eventsDropped.WithLabelValues(event, reason).Inc()
}

func (m *Metrics) MessageConsumed(topic, outcome string) {
	if m == nil {
		return
	}
	m.messagesConsumed.WithLabelValues(topic, outcome).Inc()
}
