package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/outreachboard/client-reporting-backend/internal/logger"
)

// ShareAuthorizer checks a share-link token.
type ShareAuthorizer interface {
	Authorize(ctx context.Context, token string) (ShareScope, error)
}

// ShareLinkAuth admits requests carrying a valid share-link token, taken from
// the :token path parameter or a Bearer Authorization header.
func ShareLinkAuth(authorizer ShareAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		if token == "" {
			parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = strings.TrimSpace(parts[1])
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing share link token"})
			return
		}

		scope, err := authorizer.Authorize(c.Request.Context(), token)
		if err != nil {
			logger.Debug("share link rejected", "ip", GetIPFromContext(c), "err", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "share link is invalid, expired or revoked"})
			return
		}

		viewer := "share:" + scope.LinkID
		c.Set(ShareScopeKey, scope)
		c.Set(ViewerKey, viewer)
		c.Set(ActorKey, viewer)
		c.Next()
	}
}
