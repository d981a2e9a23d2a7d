package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const ClientIPKey = "client_ip"

// proxy headers checked in order before falling back to RemoteAddr
var clientIPHeaders = []string{"X-Forwarded-For", "X-Real-Ip", "CF-Connecting-IP", "X-Forwarded"}

// AuditMiddleware stores the caller's IP for audit entries. The headers are
// taken at face value, so the result is for display only.
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ClientIPKey, getClientIP(c))
		c.Next()
	}
}

func getClientIP(c *gin.Context) string {
	for _, h := range clientIPHeaders {
		v := c.GetHeader(h)
		if v == "" {
			continue
		}
		// X-Forwarded-For may hold a chain; the first hop is the client
		if i := strings.IndexByte(v, ','); i >= 0 {
			v = v[:i]
		}
		if v = strings.TrimSpace(v); net.ParseIP(v) != nil {
			return v
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}

// GetIPFromContext returns the IP stored by AuditMiddleware, computing it
// when the middleware did not run.
func GetIPFromContext(c *gin.Context) string {
	if ip := c.GetString(ClientIPKey); ip != "" {
		return ip
	}
	return getClientIP(c)
}
