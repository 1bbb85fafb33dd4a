// Package metrics exposes Prometheus metrics for the HTTP surface and the
// service operations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/iatacodes/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all prometheus metrics. Each instance owns its registry so
// tests and multiple servers do not collide on the default one.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	Operations     *prometheus.CounterVec
	ExportedRows   *prometheus.CounterVec
	RateLimitDrops prometheus.Counter
}

// NewMetrics creates new prometheus metrics under namespace, plus the Go
// runtime and process collectors.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "The total number of HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time taken to serve HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "The total number of service operations by entity, operation and outcome",
		}, []string{"entity", "operation", "outcome"}),
		ExportedRows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_rows_total",
			Help:      "The total number of rows written to CSV exports",
		}, []string{"table"}),
		RateLimitDrops: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "The total number of requests rejected by the rate limiter",
		}),
	}
}

// ObserveOperation implements core.Observer. The outcome label is the error
// kind, or "ok".
func (m *Metrics) ObserveOperation(entity, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = core.KindOf(err).String()
	}
	m.Operations.WithLabelValues(entity, op, outcome).Inc()
}

// ObserveHTTP records a finished request. It implements
// middleware.HTTPObserver.
func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveRateLimited counts a request rejected by the rate limiter.
func (m *Metrics) ObserveRateLimited() {
	m.RateLimitDrops.Inc()
}

// ObserveExport counts the rows of a finished export.
func (m *Metrics) ObserveExport(table string, rows int) {
	m.ExportedRows.WithLabelValues(table).Add(float64(rows))
}

// Registry returns the registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

var _ core.Observer = (*Metrics)(nil)
