package middleware

import (
	"github.com/gin-gonic/gin"
)

const ContextClientIP = "client_ip"

// ClientIP resolves the caller address once so the rate limiter and the
// access log agree on it. Forwarding headers are only honoured when the
// engine trusts the peer (gin.Engine.SetTrustedProxies).
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextClientIP, c.ClientIP())
		c.Next()
	}
}
