package middleware

import (
	"strconv"
	"time"

	"gabinete-digital/metrics"

	"github.com/gin-gonic/gin"
)

// RequestMetrics counts requests by their route template, so ids in the path
// do not explode label cardinality.
func RequestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
