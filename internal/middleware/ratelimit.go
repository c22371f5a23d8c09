package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/bugfree-api/internal/errors"
	"github.com/yukikurage/bugfree-api/internal/ratelimit"
)

// RateLimit limits requests per client IP for the named endpoint. A nil
// limiter or non-positive limit disables the check. Limiter failures let
// the request through.
func RateLimit(rl ratelimit.Limiter, logger *slog.Logger, endpoint string, limit int, window time.Duration) gin.HandlerFunc {
	if rl == nil || limit <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("endpoint:%s:%s", endpoint, c.ClientIP())
		allowed, count, err := rl.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("rate limit check failed", "endpoint", endpoint, "error", err)
			c.Next()
			return
		}

		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(window).Unix()))

		if !allowed {
			apierrors.TooManyRequests(c, window.Seconds())
			c.Abort()
			return
		}

		c.Next()
	}
}
