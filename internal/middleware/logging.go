package middleware

import (
	"time" // Request latency

	"ledger_system/internal/metrics" // Metrics recorder

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// RequestLogger logs every request and records its latency
func RequestLogger(log logrus.FieldLogger, recorder metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now() // Request start
		c.Next()            // Run the rest of the chain
		latency := time.Since(start)

		route := c.FullPath() // Route template keeps metric cardinality bounded
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		recorder.ObserveRequest(c.Request.Method, route, status, latency)

		entry := log.WithFields(logrus.Fields{
			"method":    c.Request.Method,   // HTTP method
			"path":      c.Request.URL.Path, // Request path
			"status":    status,             // Response status
			"latency":   latency.String(),   // Time spent
			"client_ip": c.ClientIP(),       // Caller address
		})
		switch {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	}
}
