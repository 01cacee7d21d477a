package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // Account identifier parsing
)

// AccountGuard rejects requests whose :accountId is not the account served by this process
func AccountGuard(accountID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("accountId")) // Parse account ID from the route
		// Unknown or malformed account IDs are treated as missing accounts
		if err != nil || id != accountID {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"message":    "Account not found", // Error message
				"statusCode": http.StatusNotFound, // Mirrors the HTTP status
			})
			return
		}
		c.Next() // Proceed to the next handler
	}
}
