// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devconnector_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PostInteractions counts like, unlike and comment operations by outcome.
	PostInteractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_post_interactions_total",
		Help: "Post interactions by action and outcome",
	}, []string{"action", "outcome"})

	// AuthAttempts counts register and login attempts by outcome.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_auth_attempts_total",
		Help: "Register and login attempts by outcome",
	}, []string{"action", "outcome"})

	// EventsPublished counts domain events handed to the event bus.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnector_events_published_total",
		Help: "Domain events published by type and result",
	}, []string{"event", "result"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// Outcome labels an operation result for the counters above.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
