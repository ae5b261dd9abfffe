package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"
)

// RateLimiter caps requests per client IP. Grounded on the teacher's gin
// rate-limit middleware (internal/api/middleware/security.go).
type RateLimiter struct {
	limiter *limiter.Limiter
	logger  *zap.Logger
}

func NewRateLimiter(period time.Duration, limit int64, logger *zap.Logger) *RateLimiter {
	rate := limiter.Rate{Period: period, Limit: limit}
	return &RateLimiter{limiter: limiter.New(memory.NewStore(), rate), logger: logger}
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiterCtx, err := r.limiter.Get(c.Request.Context(), c.ClientIP())
		if err != nil {
			r.logger.Error("rate limiter lookup failed", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(limiterCtx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(limiterCtx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(limiterCtx.Reset, 10))

		if limiterCtx.Reached {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}
