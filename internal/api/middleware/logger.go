package middleware

import (
	"strings"
	"time"

	"course-portal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// probe paths are polled constantly and only logged at debug level
var quietPaths = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/live":    true,
	"/metrics": true,
}

// Logger writes one structured access log line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"status_code": status,
			"latency":     time.Since(start),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
			"request_id":  GetRequestID(c),
		})

		switch {
		case len(c.Errors) > 0:
			entry.WithField("error", strings.TrimSpace(c.Errors.String())).Error("Request completed with errors")
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		case quietPaths[c.Request.URL.Path]:
			entry.Debug("Probe served")
		default:
			entry.Info("Request completed")
		}
	}
}
