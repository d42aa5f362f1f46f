// Package metrics holds the Prometheus collectors for the HTTP layer and the
// chat domain. Everything registers on the default registry served at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chat"

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template and status",
		},
		[]string{"method", "route", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	requestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "HTTP requests currently being served",
	})

	dbConnectionsInUse = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "db_connections_in_use",
		Help:      "Database connections currently checked out of the pool",
	})

	messagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Messages stored by the send operation",
	})

	conversationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversations_created_total",
			Help:      "Membership pairs created; mirror=reused when the reverse edge already existed",
		},
		[]string{"mirror"},
	)

	conversationRowsRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "conversation_rows_removed_total",
		Help:      "Single membership rows removed",
	})

	statusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "message_status_transitions_total",
			Help:      "Message status changes by target status",
		},
		[]string{"to"},
	)

	rateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter, by bucket scope",
		},
		[]string{"scope"},
	)
)

// ObserveRequest records one finished HTTP request
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RequestStarted bumps the in-flight gauge and returns its matching decrement
func RequestStarted() func() {
	requestsInFlight.Inc()
	return requestsInFlight.Dec
}

// SetDBConnectionsInUse updates the pool gauge
func SetDBConnectionsInUse(n int) {
	dbConnectionsInUse.Set(float64(n))
}

// MessageSent counts a stored message
func MessageSent() {
	messagesSent.Inc()
}

// ConversationCreated counts a new membership pair
func ConversationCreated(mirrorReused bool) {
	label := "inserted"
	if mirrorReused {
		label = "reused"
	}
	conversationsCreated.WithLabelValues(label).Inc()
}

// ConversationRowRemoved counts a deleted membership row
func ConversationRowRemoved() {
	conversationRowsRemoved.Inc()
}

// StatusTransition counts a message moving to status to
func StatusTransition(to string) {
	statusTransitions.WithLabelValues(to).Inc()
}

// RateLimited counts a rejected request
func RateLimited(scope string) {
	rateLimited.WithLabelValues(scope).Inc()
}
