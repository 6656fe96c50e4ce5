package middleware

import (
	"net"

	"github.com/gin-gonic/gin"

	apperrors "myworld/backend/internal/errors"
)

// LocalOnly rejects clients that do not connect from a loopback address.
// Forwarding headers are not consulted.
func LocalOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := net.ParseIP(c.RemoteIP())
		if ip == nil || !ip.IsLoopback() {
			writeError(c, apperrors.Forbidden("the API only accepts local connections"))
			return
		}
		c.Next()
	}
}

func writeError(c *gin.Context, apiErr *apperrors.APIError) {
	c.AbortWithStatusJSON(apiErr.Status, gin.H{
		"error": gin.H{
			"code":    apiErr.Code,
			"message": apiErr.Message,
			"details": apiErr.Details,
		},
	})
}
