package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/llm-benchmarks-backend/pkg/metrics"
)

// Metrics records request counts and latency per route template
func Metrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.RecordHTTPRequest(endpoint, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
