package middleware

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hotel-yunuen/service-reservation/internal/platform/response"
)

// Limiter decides whether another hit for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int64, err error)
}

// RateLimitMiddleware limits requests per caller (user id, falling back to
// client IP). Limiter errors let the request through.
func RateLimitMiddleware(limiter Limiter, scope string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		caller := c.GetString("user_id")
		if caller == "" {
			caller = c.ClientIP()
		}

		allowed, remaining, err := limiter.Allow(c.Request.Context(), scope+":"+caller)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.String("scope", scope), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		if !allowed {
			response.TooManyRequests(c, "rate limit exceeded")
			return
		}
		c.Next()
	}
}
