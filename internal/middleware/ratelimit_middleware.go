package middleware

import (
	"net/http"
	"strconv"

	"stream-alerts/internal/metrics"
	"stream-alerts/internal/redis"
	"stream-alerts/internal/transport/httpdto"
	alerts_errors "stream-alerts/pkg/errors"

	"github.com/gin-gonic/gin"
)

// IngressRateLimitMiddleware limits publish requests per client IP.
// Limiter errors fail open so a Redis outage does not block ingress.
func IngressRateLimitMiddleware(limiter *redis.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := limiter.AllowIngress(c.Request.Context(), c.ClientIP())
		if err != nil {
			_ = c.Error(err)
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			metrics.RateLimitHits.Inc()
			_ = c.Error(alerts_errors.ErrRateLimited)
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse(alerts_errors.ErrRateLimited.Error(), "RATE_LIMITED"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// setRateLimitHeaders sets standard rate limit response headers
func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
