package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "masterclass",
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "masterclass",
			Subsystem: "server",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Completion gateway
	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "masterclass",
			Subsystem: "server",
			Name:      "completion_duration_seconds",
			Help:      "Completion call duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"model", "status"},
	)

	CompletionTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "masterclass",
			Subsystem: "server",
			Name:      "completion_tokens_total",
			Help:      "Total tokens reported by the completion gateway",
		},
		[]string{"model"},
	)

	// Outbound webhooks
	WebhookDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "masterclass",
			Subsystem: "server",
			Name:      "webhook_deliveries_total",
			Help:      "Total webhook delivery attempts by outcome",
		},
		[]string{"status"},
	)

	// Intake flow
	IntakeEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "masterclass",
			Subsystem: "server",
			Name:      "intake_events_total",
			Help:      "Intake flow events such as collection start and completion",
		},
		[]string{"event"},
	)

	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "masterclass",
			Subsystem: "server",
			Name:      "registrations_total",
			Help:      "Replay registrations and direct access grants",
		},
		[]string{"outcome"},
	)

	// Background jobs
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "masterclass",
			Subsystem: "server",
			Name:      "jobs_total",
			Help:      "Background jobs by name and outcome",
		},
		[]string{"job", "outcome"},
	)

	JobQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "masterclass",
			Subsystem: "server",
			Name:      "job_queue_depth",
			Help:      "Jobs waiting for a worker",
		},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "masterclass",
			Subsystem: "server",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)
)

// RecordRequest records an HTTP request.
func RecordRequest(method, endpoint, status string, seconds float64) {
	endpoint = NormalizeEndpoint(endpoint)
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(seconds)
}

// RecordCompletion records one completion call.
func RecordCompletion(model, status string, seconds float64, tokens int) {
	CompletionDuration.WithLabelValues(model, status).Observe(seconds)
	if tokens > 0 {
		CompletionTokensTotal.WithLabelValues(model).Add(float64(tokens))
	}
}

// RecordWebhook records a delivery attempt outcome.
func RecordWebhook(status string) {
	WebhookDeliveriesTotal.WithLabelValues(status).Inc()
}

// RecordIntakeEvent records an intake event.
func RecordIntakeEvent(event string) {
	IntakeEventsTotal.WithLabelValues(event).Inc()
}

// RecordRegistration records a registration or access outcome.
func RecordRegistration(outcome string) {
	RegistrationsTotal.WithLabelValues(outcome).Inc()
}

// RecordJob records a background job outcome.
func RecordJob(job, outcome string) {
	JobsTotal.WithLabelValues(job, outcome).Inc()
}

// NormalizeEndpoint returns the route template, or "unmatched" for unknown routes.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "unmatched"
	}
	return endpoint
}
