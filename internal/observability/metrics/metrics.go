// Package metrics exposes Prometheus collectors for the HTTP surface and the
// authentication flow.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	obserrors "github.com/flashbackfa/entreprise-api/internal/observability/errors"
)

// Outcome constants for login metric tagging.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds all collectors behind a private registry so tests can create
// isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	loginsTotal     *prometheus.CounterVec
	roleResolutions *prometheus.CounterVec
}

// New creates a Metrics instance with all collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		loginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_logins_total",
				Help: "Completed login attempts by outcome.",
			},
			[]string{"outcome", "error_class"},
		),
		roleResolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_role_resolutions_total",
				Help: "Role resolutions by resolved role.",
			},
			[]string{"role"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.loginsTotal,
		m.roleResolutions,
	)
	return m
}

// Handler returns the Prometheus scrape handler for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument wraps an HTTP handler with RPS, latency, and in-flight tracking.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(sw.code)

		m.httpRequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(duration)
		m.httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		m.httpInFlight.Dec()
	})
}

// RecordLogin counts a completed login attempt. The error class tag comes from
// the innermost error type, or stays empty on success.
func (m *Metrics) RecordLogin(err error) {
	if err != nil {
		m.loginsTotal.WithLabelValues(OutcomeError, obserrors.Classify(err)).Inc()
		return
	}
	m.loginsTotal.WithLabelValues(OutcomeSuccess, "").Inc()
}

// RecordRoleResolution counts a role resolution result.
func (m *Metrics) RecordRoleResolution(role string) {
	m.roleResolutions.WithLabelValues(role).Inc()
}

// statusWriter records the response code for labeling.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
