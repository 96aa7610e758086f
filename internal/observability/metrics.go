package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
// All methods are safe on a nil receiver and then do nothing.
type Metrics struct {
	registry            *prometheus.Registry
	ingestRows          *prometheus.CounterVec
	aggregationDuration prometheus.Histogram
	httpRequests        *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ingestRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "morsel",
			Name:      "ingest_rows_total",
			Help:      "Raw rows read during ingestion, by input and outcome (kept or dropped).",
		}, []string{"source", "outcome"}),
		aggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "morsel",
			Name:      "aggregation_duration_seconds",
			Help:      "Time spent filtering and aggregating the sales dataset.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "morsel",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.ingestRows,
		m.aggregationDuration,
		m.httpRequests,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) ObserveIngest(source string, kept, dropped int) {
	if m == nil {
		return
	}
	m.ingestRows.WithLabelValues(source, "kept").Add(float64(kept))
	m.ingestRows.WithLabelValues(source, "dropped").Add(float64(dropped))
}

func (m *Metrics) ObserveAggregation(d time.Duration) {
	if m == nil {
		return
	}
	m.aggregationDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
