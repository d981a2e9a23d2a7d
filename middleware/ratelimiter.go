package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiter limits requests per client IP as gin resolves it, so
// forwarding headers only count from trusted proxies. Each call gets its
// own store, so separate route groups keep separate budgets.
func RateLimiter(limit int64, period time.Duration) gin.HandlerFunc {
	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          "reporting",
		CleanUpInterval: period,
	})
	rate := limiter.Rate{
		Period: period,
		Limit:  limit,
	}

	instance := limiter.New(store, rate)

	return ginlimiter.NewMiddleware(instance,
		ginlimiter.WithKeyGetter(func(c *gin.Context) string { return c.ClientIP() }),
		ginlimiter.WithLimitReachedHandler(func(c *gin.Context) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
		}),
	)
}
