package middleware

import "github.com/gin-gonic/gin"

const (
	ViewerKey     = "viewer"
	ActorKey      = "actor"
	ShareScopeKey = "share_scope"

	AdminViewer     = "admin"
	AnonymousViewer = "anonymous"
)

// ShareScope is what a verified share-link token grants.
type ShareScope struct {
	LinkID    string
	CompanyID string
}

// ViewerFromContext identifies whose recent ranges a request reads and writes.
func ViewerFromContext(c *gin.Context) string {
	if v := c.GetString(ViewerKey); v != "" {
		return v
	}
	return AnonymousViewer
}

// ActorFromContext names the caller in audit entries.
func ActorFromContext(c *gin.Context) string {
	if a := c.GetString(ActorKey); a != "" {
		return a
	}
	return AnonymousViewer
}

func ShareScopeFromContext(c *gin.Context) (ShareScope, bool) {
	v, ok := c.Get(ShareScopeKey)
	if !ok {
		return ShareScope{}, false
	}
	scope, ok := v.(ShareScope)
	return scope, ok
}
