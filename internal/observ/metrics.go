package observ

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private prometheus registry and every collector the
// service exports. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	registrations    *prometheus.CounterVec
	logins           *prometheus.CounterVec
	refreshes        *prometheus.CounterVec
	jobsPosted       prometheus.Counter
	jobNumberRetries prometheus.Counter
	jobTypeCache     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propman_registrations_total",
				Help: "Completed registrations by role",
			},
			[]string{"role"},
		),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propman_logins_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propman_token_refreshes_total",
				Help: "Refresh token exchanges by result",
			},
			[]string{"result"},
		),
		jobsPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "propman_jobs_posted_total",
			Help: "Jobs created",
		}),
		jobNumberRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "propman_job_number_collisions_total",
			Help: "Job number draws that collided with an existing job",
		}),
		jobTypeCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propman_job_type_cache_total",
				Help: "Job type cache lookups by result",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.registrations,
		m.logins,
		m.refreshes,
		m.jobsPosted,
		m.jobNumberRetries,
		m.jobTypeCache,
	)
	return m
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests that need to gather values.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requests.WithLabelValues(method, path, code).Inc()
	m.requestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

func (m *Metrics) Registered(role string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(role).Inc()
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) Refresh(result string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(result).Inc()
}

func (m *Metrics) JobPosted() {
	if m == nil {
		return
	}
	m.jobsPosted.Inc()
}

func (m *Metrics) JobNumberCollision() {
	if m == nil {
		return
	}
	m.jobNumberRetries.Inc()
}

func (m *Metrics) JobTypeCache(result string) {
	if m == nil {
		return
	}
	m.jobTypeCache.WithLabelValues(result).Inc()
}
