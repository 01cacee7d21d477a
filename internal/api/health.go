package api

import (
	"net/http" // HTTP status codes
	"time"     // Timestamps

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// HealthHandler reports whether the transaction log still replays to the balance
func HealthHandler(l Ledger, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "Healthy", http.StatusOK
		resp := gin.H{
			"timestamp": time.Now().UTC(), // Time of the check
			"accountId": l.AccountID(),    // Account served
		}
		if err := l.Verify(); err != nil {
			status, code = "Unhealthy", http.StatusServiceUnavailable
			resp["error"] = err.Error()                                             // Why the check failed
			log.WithField("error", err.Error()).Error("Ledger verification failed") // Log inconsistency
		}
		resp["status"] = status
		c.JSON(code, resp)
	}
}
