package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/arielbeck/go-halakha-backend/internal/apperr"
)

// apiKeyHeader carries the client credential.
const apiKeyHeader = "X-API-Key"

// APIKeyAuth rejects requests whose X-API-Key header does not match the
// configured key. An empty configured key disables authentication (local
// development); the health and metrics endpoints are mounted outside the
// guarded group and are never affected.
//
// The comparison is constant-time; the presented value is never logged.
func APIKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		got := c.GetHeader(apiKeyHeader)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			// Rendered by ErrorMapper, which sits earlier in the chain.
			_ = c.Error(apperr.Unauthorized("missing or invalid API key"))
			c.Abort()
			return
		}
		c.Next()
	}
}
