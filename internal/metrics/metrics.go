// Package metrics holds the Prometheus collectors for token derivation,
// upstream fetches, parsed courses and API requests.
//
// Collectors live on a private registry so tests can build an isolated set
// with New and the binary exposes the default one at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics groups every collector the service records.
type Metrics struct {
	registry *prometheus.Registry

	tokenDerivations *prometheus.CounterVec
	fetchDuration    *prometheus.HistogramVec
	coursesParsed    prometheus.Counter
	rowsSkipped      prometheus.Counter
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
}

var defaultMetrics = New()

// New registers a fresh set of collectors on their own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		tokenDerivations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sucuri_token_derivations_total",
			Help: "Number of session token derivations by result",
		}, []string{"result"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scraper_fetch_duration_seconds",
			Help:    "Duration of upstream page fetches",
			Buckets: prometheus.DefBuckets,
		}, []string{"page", "result"}),
		coursesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedule_courses_parsed_total",
			Help: "Courses emitted by the schedule table parser",
		}),
		rowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedule_rows_skipped_total",
			Help: "Qualifying rows the schedule table parser could not decode",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
	}

	registry.MustRegister(
		m.tokenDerivations,
		m.fetchDuration,
		m.coursesParsed,
		m.rowsSkipped,
		m.requestDuration,
		m.requestTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Default returns the process-wide collectors.
func Default() *Metrics {
	return defaultMetrics
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveTokenDerivation counts one derivation attempt.
func (m *Metrics) ObserveTokenDerivation(err error) {
	m.tokenDerivations.WithLabelValues(result(err)).Inc()
}

// ObserveFetch records how long an upstream page took.
func (m *Metrics) ObserveFetch(page string, d time.Duration, err error) {
	m.fetchDuration.WithLabelValues(page, result(err)).Observe(d.Seconds())
}

// ObserveParse records the outcome of one table parse.
func (m *Metrics) ObserveParse(courses, skipped int) {
	m.coursesParsed.Add(float64(courses))
	m.rowsSkipped.Add(float64(skipped))
}

// ObserveHTTPRequest records one API request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
