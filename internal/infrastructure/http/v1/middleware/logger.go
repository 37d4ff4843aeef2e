package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"onboarding/pkg/logger"
)

// RequestObserver records request latency, e.g. into a Prometheus histogram.
type RequestObserver interface {
	ObserveRequest(method, route, status string, start time.Time)
}

// Logger middleware logs HTTP requests with timing and status.
// observer may be nil.
func Logger(log *logger.Logger, observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if observer != nil {
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			observer.ObserveRequest(c.Request.Method, route, strconv.Itoa(status), start)
		}

		log.WithContext(c.Request.Context()).Infow("http request",
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"error", c.Errors.ByType(gin.ErrorTypePrivate).String(),
		)
	}
}
