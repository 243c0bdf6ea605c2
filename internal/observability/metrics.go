// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Query outcome labels.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Gatherer metrics
	QueriesTotal        *prometheus.CounterVec
	QueryDuration       *prometheus.HistogramVec
	ResponsesPersisted  *prometheus.CounterVec
	BranchesRegistered  *prometheus.CounterVec
	UnknownBranches     *prometheus.CounterVec
	DroppedRecords      *prometheus.CounterVec
	LastSuccessfulQuery *prometheus.GaugeVec

	// Transport metrics
	FetchDuration    *prometheus.HistogramVec
	BridgeWaitCycles *prometheus.CounterVec

	// Publisher metrics
	PublishErrors *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewMetrics creates a Metrics instance registered with reg.
// A nil reg registers with the default Prometheus registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "cotizaciones"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		QueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gatherer",
			Name:      "queries_total",
			Help:      "Total number of DoQuery invocations by source and status",
		}, []string{"source", "status"}),
		QueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gatherer",
			Name:      "query_duration_seconds",
			Help:      "DoQuery duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}, []string{"source"}),
		ResponsesPersisted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gatherer",
			Name:      "responses_persisted_total",
			Help:      "Total number of query responses persisted",
		}, []string{"source"}),
		BranchesRegistered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gatherer",
			Name:      "branches_registered_total",
			Help:      "Total number of branches registered",
		}, []string{"source"}),
		UnknownBranches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gatherer",
			Name:      "unknown_branches_total",
			Help:      "Total number of remote branch codes without static metadata",
		}, []string{"source"}),
		DroppedRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gatherer",
			Name:      "dropped_records_total",
			Help:      "Total number of raw records dropped during normalization by reason",
		}, []string{"source", "reason"}),
		LastSuccessfulQuery: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "gatherer",
			Name:      "last_successful_query_timestamp",
			Help:      "Unix timestamp of last successful query",
		}, []string{"source"}),

		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "fetch_duration_seconds",
			Help:      "Bridge fetch duration in seconds by outcome",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		}, []string{"source", "outcome"}),
		BridgeWaitCycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "wait_cycles_total",
			Help:      "Total number of bridge wait cycles that elapsed without a payload",
		}, []string{"source"}),

		PublishErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "publish",
			Name:      "errors_total",
			Help:      "Total number of failed snapshot publications",
		}, []string{"source"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		}, []string{"method", "route", "code"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordQuery records one DoQuery outcome.
func (m *Metrics) RecordQuery(source string, d time.Duration, persisted int, err error) {
	m.QueryDuration.WithLabelValues(source).Observe(d.Seconds())
	if err != nil {
		m.QueriesTotal.WithLabelValues(source, StatusError).Inc()
		return
	}
	m.QueriesTotal.WithLabelValues(source, StatusOK).Inc()
	m.ResponsesPersisted.WithLabelValues(source).Add(float64(persisted))
	m.LastSuccessfulQuery.WithLabelValues(source).SetToCurrentTime()
}

// RecordFetch records a bridge fetch with its outcome label.
func (m *Metrics) RecordFetch(source, outcome string, d time.Duration) {
	m.FetchDuration.WithLabelValues(source, outcome).Observe(d.Seconds())
}

// RecordWaitCycle counts one elapsed bridge wait cycle. Its signature matches
// transport.WaitObserver.
func (m *Metrics) RecordWaitCycle(source string, _ int) {
	m.BridgeWaitCycles.WithLabelValues(source).Inc()
}

// RecordBranchRegistered counts a newly registered branch.
func (m *Metrics) RecordBranchRegistered(source string, unknown bool) {
	m.BranchesRegistered.WithLabelValues(source).Inc()
	if unknown {
		m.UnknownBranches.WithLabelValues(source).Inc()
	}
}

// RecordDropped counts a raw record dropped during normalization.
func (m *Metrics) RecordDropped(source, reason string) {
	m.DroppedRecords.WithLabelValues(source, reason).Inc()
}

// RecordPublishError counts a failed publication.
func (m *Metrics) RecordPublishError(source string) {
	m.PublishErrors.WithLabelValues(source).Inc()
}

// RecordHTTPRequest records an HTTP request served by the API.
func (m *Metrics) RecordHTTPRequest(method, route, code string, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, code).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
