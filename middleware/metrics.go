package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/outreachboard/client-reporting-backend/internal/logger"
	"github.com/outreachboard/client-reporting-backend/internal/metrics"
)

// Metrics records request count and latency per matched route and logs the
// request at debug level.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		took := time.Since(start)

		metrics.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(route, c.Request.Method).Observe(took.Seconds())
		logger.Debug("request", "method", c.Request.Method, "route", route, "status", status,
			"took", took, "request_id", c.GetString(RequestIDKey))
	}
}
