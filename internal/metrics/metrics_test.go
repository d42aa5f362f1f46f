package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDomainCounters(t *testing.T) {
	sent := testutil.ToFloat64(messagesSent)
	MessageSent()
	MessageSent()
	assert.Equal(t, sent+2, testutil.ToFloat64(messagesSent))

	reused := testutil.ToFloat64(conversationsCreated.WithLabelValues("reused"))
	ConversationCreated(true)
	assert.Equal(t, reused+1, testutil.ToFloat64(conversationsCreated.WithLabelValues("reused")))

	read := testutil.ToFloat64(statusTransitions.WithLabelValues("read"))
	StatusTransition("read")
	assert.Equal(t, read+1, testutil.ToFloat64(statusTransitions.WithLabelValues("read")))

	limited := testutil.ToFloat64(rateLimited.WithLabelValues("send"))
	RateLimited("send")
	assert.Equal(t, limited+1, testutil.ToFloat64(rateLimited.WithLabelValues("send")))
}

func TestRequestMetrics(t *testing.T) {
	before := testutil.ToFloat64(requestsTotal.WithLabelValues("GET", "/health", "200"))

	done := RequestStarted()
	assert.Equal(t, float64(1), testutil.ToFloat64(requestsInFlight))
	done()
	assert.Equal(t, float64(0), testutil.ToFloat64(requestsInFlight))

	ObserveRequest("GET", "/health", 200, 3*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(requestsTotal.WithLabelValues("GET", "/health", "200")))

	SetDBConnectionsInUse(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(dbConnectionsInUse))
}
