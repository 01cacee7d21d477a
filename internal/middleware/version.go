package middleware

import "github.com/gin-gonic/gin" // Gin web framework

// APIVersionHeader is the response header carrying the API version
const APIVersionHeader = "API-Version"

// APIVersion stamps every response with the API version
func APIVersion(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(APIVersionHeader, version) // Set before handlers write the body
		c.Next()
	}
}
