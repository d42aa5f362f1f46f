package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/groupchat/chat-backend/internal/metrics"
)

// Metrics records request count and latency per route template.
// The scrape endpoint itself is not counted.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		done := metrics.RequestStarted()
		defer done()

		c.Next()

		metrics.ObserveRequest(c.Request.Method, routeLabel(c.FullPath()), c.Writer.Status(), time.Since(start))
	}
}

// routeLabel keeps ids and unknown paths out of the label set
func routeLabel(fullPath string) string {
	if fullPath == "" {
		return "unmatched"
	}
	return fullPath
}
