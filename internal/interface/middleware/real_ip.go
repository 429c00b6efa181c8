package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// realIPHeaders are checked in order; for list headers the left-most entry wins.
var realIPHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// RealIP sets the real client IP into Gin context (key: "real_ip").
// Falls back to c.ClientIP() when no header carries a parsable address.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", realIP(c))
		c.Next()
	}
}

func realIP(c *gin.Context) string {
	for _, h := range realIPHeaders {
		v := c.GetHeader(h)
		if v == "" {
			continue
		}
		first := strings.TrimSpace(strings.SplitN(v, ",", 2)[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip.String()
		}
	}
	return c.ClientIP()
}
