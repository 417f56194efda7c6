package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminKey only admits requests carrying key in the X-Admin-Key header.
func AdminKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sent := c.GetHeader(AdminKeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(sent), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Access denied",
			})
			return
		}
		c.Next()
	}
}
