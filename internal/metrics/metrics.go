package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors exported by the service.
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Echo operation metrics
	EchoOperations     *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec

	// Event publishing metrics
	EventsPublished *prometheus.CounterVec
}

// New registers every collector on reg with names prefixed by prefix.
// Passing prometheus.DefaultRegisterer exposes them on promhttp.Handler().
func New(prefix string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		EchoOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_echo_operations_total",
				Help: "Total number of echo operations served",
			},
			[]string{"operation"},
		),
		ValidationFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_validation_failures_total",
				Help: "Total number of requests rejected by input validation",
			},
			[]string{"reason"},
		),
		EventsPublished: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_events_published_total",
				Help: "Total number of echo events handed to the broker",
			},
			[]string{"result"},
		),
	}
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, path, status string, start time.Time) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
}

// RecordOperation increments the counter for an echo operation
func (m *Metrics) RecordOperation(operation string) {
	if m == nil {
		return
	}
	m.EchoOperations.WithLabelValues(operation).Inc()
}

// RecordValidationFailure increments the counter for a rejected request
func (m *Metrics) RecordValidationFailure(reason string) {
	if m == nil {
		return
	}
	m.ValidationFailures.WithLabelValues(reason).Inc()
}

// RecordEventPublished counts a publish attempt by outcome ("ok" or "error").
func (m *Metrics) RecordEventPublished(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.EventsPublished.WithLabelValues(result).Inc()
}
