package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadOnlyMiddleware rejects every write request when enabled.
func ReadOnlyMiddleware(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled || IsSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "This instance is read-only",
		})
	}
}
