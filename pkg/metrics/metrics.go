// Package metrics provides Prometheus metrics for the Dojo service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MutationsTotal tracks record mutations by record kind, operation and status
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dojo",
			Subsystem: "records",
			Name:      "mutations_total",
			Help:      "Total number of record mutations by kind, operation and status",
		},
		[]string{"kind", "operation", "status"},
	)

	// MutationDuration tracks the persistence step duration in seconds
	MutationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dojo",
			Subsystem: "records",
			Name:      "mutation_duration_seconds",
			Help:      "Duration of record mutations in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"kind", "operation"},
	)

	// NotificationsTotal tracks dispatched notifications by event and outcome
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dojo",
			Subsystem: "notify",
			Name:      "dispatched_total",
			Help:      "Total number of notification dispatch attempts by event and outcome",
		},
		[]string{"event", "outcome"},
	)

	// NotificationFailures tracks notification dispatches that could not be delivered
	NotificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dojo",
			Subsystem: "notify",
			Name:      "failures_total",
			Help:      "Total number of notification dispatch failures by event",
		},
		[]string{"event"},
	)

	// LettersGenerated tracks generated letters by type
	LettersGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dojo",
			Subsystem: "letters",
			Name:      "generated_total",
			Help:      "Total number of letters generated by type",
		},
		[]string{"type"},
	)

	// HTTPRequestsTotal tracks outbound HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dojo",
			Subsystem: "http_client",
			Name:      "requests_total",
			Help:      "Total number of outbound HTTP requests",
		},
		[]string{"method", "status_code"},
	)

	// DLQEntriesTotal tracks failed side effects recorded to the dead letter stream
	DLQEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dojo",
			Subsystem: "notify",
			Name:      "dlq_entries_total",
			Help:      "Total number of failed side effects recorded to the dead letter stream",
		},
		[]string{"event"},
	)
)
