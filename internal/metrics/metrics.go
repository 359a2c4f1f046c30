// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the server's collectors on one registry.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	projectMutation *prometheus.CounterVec
	authFailures    prometheus.Counter
}

// New registers the collectors on a fresh registry, together with the
// standard process and Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pmdash",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pmdash",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		projectMutation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pmdash",
			Name:      "project_mutations_total",
			Help:      "Successful project writes by operation.",
		}, []string{"op"}),
		authFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pmdash",
			Name:      "auth_failures_total",
			Help:      "Requests rejected for missing or invalid credentials.",
		}),
	}
	reg.MustRegister(
		m.requests,
		m.duration,
		m.projectMutation,
		m.authFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ProjectMutation counts a successful create, update or delete.
func (m *Metrics) ProjectMutation(op string) {
	if m == nil {
		return
	}
	m.projectMutation.WithLabelValues(op).Inc()
}

// AuthFailure counts a rejected credential.
func (m *Metrics) AuthFailure() {
	if m == nil {
		return
	}
	m.authFailures.Inc()
}
