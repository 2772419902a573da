// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// MessagesTotal tracks inbound group messages by outcome
	// (command, reply, ignored, error).
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_messages_total",
			Help: "Inbound group messages by processing outcome",
		},
		[]string{"outcome"},
	)

	// IntentsTotal tracks classified intents by kind.
	IntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_intents_total",
			Help: "Classified intents by kind",
		},
		[]string{"kind"},
	)

	// VolunteerConfidence tracks the confidence score assigned to
	// mention-free messages.
	VolunteerConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bot_volunteer_confidence",
			Help:    "Confidence score for volunteer-reply detection",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	// ActiveContexts tracks live conversation contexts.
	ActiveContexts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_active_contexts",
			Help: "Number of live conversation contexts",
		},
	)

	// OutboundPostsTotal tracks messages posted back to the group.
	OutboundPostsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_outbound_posts_total",
			Help: "Messages posted to the group chat",
		},
		[]string{"status"},
	)

	// RemindersTotal tracks scheduled reminders sent.
	RemindersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_reminders_total",
			Help: "Game reminders sent",
		},
		[]string{"window"},
	)

	// ScheduleFetchesTotal tracks schedule source fetches.
	ScheduleFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_schedule_fetches_total",
			Help: "Schedule source fetches",
		},
		[]string{"source", "status"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordIntent records a classified intent and the message outcome.
func RecordIntent(kind string) {
	IntentsTotal.WithLabelValues(kind).Inc()
}
