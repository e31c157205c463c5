package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collaborator call outcomes
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
	OutcomeEmpty   = "empty"
)

// Metrics owns the service's collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpLatency       *prometheus.HistogramVec
	collaboratorCalls *prometheus.CounterVec
	degradedSteps     *prometheus.CounterVec
	casesCreated      prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		collaboratorCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "collaborator_calls_total",
			Help: "Text-generation calls by outcome.",
		}, []string{"outcome"}),
		degradedSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_degraded_steps_total",
			Help: "Case pipeline steps that returned a placeholder.",
		}, []string{"step"}),
		casesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cases_created_total",
			Help: "Cases persisted after a pipeline run.",
		}),
	}
	m.registry.MustRegister(
		m.httpRequests,
		m.httpLatency,
		m.collaboratorCalls,
		m.degradedSteps,
		m.casesCreated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) CollaboratorCall(outcome string) {
	if m == nil {
		return
	}
	m.collaboratorCalls.WithLabelValues(outcome).Inc()
}

func (m *Metrics) StepDegraded(step string) {
	if m == nil {
		return
	}
	m.degradedSteps.WithLabelValues(step).Inc()
}

func (m *Metrics) CaseCreated() {
	if m == nil {
		return
	}
	m.casesCreated.Inc()
}
