// Package metrics exposes Prometheus counters for the station server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the server.
// A nil *Metrics records nothing.
type Metrics struct {
	registry           *prometheus.Registry
	requestsTotal      *prometheus.CounterVec
	errorsTotal        prometheus.Counter
	contactSubmissions *prometheus.CounterVec
	loginsTotal        *prometheus.CounterVec
	uploadsTotal       prometheus.Counter
	importedEpisodes   prometheus.Counter
	inboxWatchers      prometheus.Gauge
	activeSessions     prometheus.Gauge
}

// New creates and registers Prometheus metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "onair_requests_total",
		Help: "Total number of HTTP requests received",
	}, []string{"method"})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "onair_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	contactSubmissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "onair_contact_submissions_total",
		Help: "Contact form submissions by result code",
	}, []string{"code"})
	loginsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "onair_admin_logins_total",
		Help: "Admin login attempts by result",
	}, []string{"result"})
	uploadsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "onair_image_uploads_total",
		Help: "Total number of stored image uploads",
	})
	importedEpisodes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "onair_imported_episodes_total",
		Help: "Total number of podcast episodes imported from Spotify",
	})
	inboxWatchers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "onair_inbox_watchers",
		Help: "Number of admin clients watching the inbox",
	})
	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "onair_admin_sessions",
		Help: "Number of active admin sessions",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		contactSubmissions,
		loginsTotal,
		uploadsTotal,
		importedEpisodes,
		inboxWatchers,
		activeSessions,
	)

	return &Metrics{
		registry:           registry,
		requestsTotal:      requestsTotal,
		errorsTotal:        errorsTotal,
		contactSubmissions: contactSubmissions,
		loginsTotal:        loginsTotal,
		uploadsTotal:       uploadsTotal,
		importedEpisodes:   importedEpisodes,
		inboxWatchers:      inboxWatchers,
		activeSessions:     activeSessions,
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// IncRequests increments the request counter for method.
func (m *Metrics) IncRequests(method string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method).Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	if m == nil {
		return
	}
	m.errorsTotal.Inc()
}

// IncContactSubmission counts a contact submission by its result code.
func (m *Metrics) IncContactSubmission(code string) {
	if m == nil {
		return
	}
	m.contactSubmissions.WithLabelValues(code).Inc()
}

// IncLogin counts a login attempt.
func (m *Metrics) IncLogin(success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.loginsTotal.WithLabelValues(result).Inc()
}

// IncUploads increments the upload counter.
func (m *Metrics) IncUploads() {
	if m == nil {
		return
	}
	m.uploadsTotal.Inc()
}

// AddImportedEpisodes adds n imported episodes.
func (m *Metrics) AddImportedEpisodes(n int) {
	if m == nil {
		return
	}
	m.importedEpisodes.Add(float64(n))
}

// SetInboxWatchers sets the inbox watcher gauge.
func (m *Metrics) SetInboxWatchers(n int) {
	if m == nil {
		return
	}
	m.inboxWatchers.Set(float64(n))
}

// SetActiveSessions sets the admin session gauge.
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values.
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		h.ServeHTTP(w, r)
	})
}
