package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/propman/internal/observ"
)

// Metrics records request count and latency labelled by the route
// template, so /api/job/getjobdetails/:id is one series.
func Metrics(m *observ.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
