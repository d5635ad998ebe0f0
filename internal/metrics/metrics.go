package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreOperations counts store operations by name and result (ok|not_found|error).
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ntf_store_operations_total",
			Help: "Total number of notification store operations",
		},
		[]string{"operation", "result"},
	)

	// StoredNotifications tracks notifications currently held in the store.
	StoredNotifications = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ntf_notifications_stored",
			Help: "Number of notifications currently stored",
		},
	)

	// SSEClients tracks connected event stream subscribers.
	SSEClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ntf_sse_clients",
			Help: "Number of connected event stream clients",
		},
	)

	// DroppedEvents counts lifecycle events not delivered to a subscriber.
	DroppedEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ntf_sse_dropped_events_total",
			Help: "Total number of lifecycle events dropped for slow subscribers",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ntf_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
