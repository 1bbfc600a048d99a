package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bottle_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bottle_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	PanicsRecoveredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bottle_http_panics_recovered_total",
			Help: "Handler panics caught by the recovery middleware",
		},
	)

	SelectionTierTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bottle_selection_tier_total",
			Help: "Messages served, by the selection tier that produced them",
		},
		[]string{"tier"},
	)

	SelectionExhaustedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bottle_selection_exhausted_total",
			Help: "Selections that found no eligible message",
		},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bottle_submissions_total",
			Help: "Message submissions by outcome",
		},
		[]string{"outcome"},
	)

	ModerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bottle_moderations_total",
			Help: "Moderation actions by resulting status",
		},
		[]string{"action"},
	)

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bottle_store_query_duration_seconds",
			Help:    "Duration of message store calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	OutboxPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bottle_outbox_published_total",
			Help: "Outbox events published to Kafka",
		},
		[]string{"event_type"},
	)
)
