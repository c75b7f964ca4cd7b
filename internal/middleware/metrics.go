package middleware

import (
	"strconv"
	"time"

	"clinic-admin-api/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and duration by route template
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), start)
	}
}
