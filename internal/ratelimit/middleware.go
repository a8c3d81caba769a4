package ratelimit

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/errors"
)

// TriggerMiddleware limits pipeline trigger endpoints per client IP. A limiter
// failure never blocks the request; only an explicit deny returns 429.
func (l *Limiter) TriggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ip := c.ClientIP()

		result, err := l.AllowTrigger(ctx, ip)
		if err != nil {
			slog.Error("Trigger limit check failed", "ip", ip, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			if l.metrics != nil {
				l.metrics.IncrementRateLimitBlock()
			}

			retryAfter := strconv.Itoa(int(result.RetryAfter.Seconds()))
			c.Header("Retry-After", retryAfter)
			c.Error(apperrors.NewRateLimitError(retryAfter))
			c.Abort()
			return
		}

		c.Next()
	}
}
