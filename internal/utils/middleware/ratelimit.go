package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uniedit/payrecon/internal/port/outbound"
	apperrors "github.com/uniedit/payrecon/internal/utils/errors"
	"go.uber.org/zap"
)

// Rate limit response headers.
const (
	RateLimitLimit     = "X-RateLimit-Limit"
	RateLimitRemaining = "X-RateLimit-Remaining"
	RateLimitReset     = "X-RateLimit-Reset"
	RetryAfter         = "Retry-After"
)

// RateLimitConfig holds rate limit configuration.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// KeyFunc picks the bucket for a request. Defaults to the client IP.
	KeyFunc func(*gin.Context) string
}

// RateLimit rejects requests over cfg.Limit per cfg.Window with 429. A nil
// limiter or non-positive limit disables it, and limiter errors let the
// request through.
func RateLimit(limiter outbound.RateLimiterPort, cfg RateLimitConfig, log *zap.Logger) gin.HandlerFunc {
	if limiter == nil || cfg.Limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIPKey
	}
	if log == nil {
		log = zap.NewNop()
	}
	retryAfter := strconv.Itoa(int(math.Ceil(cfg.Window.Seconds())))
	limit := strconv.Itoa(cfg.Limit)

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := cfg.KeyFunc(c)

		allowed, err := limiter.Allow(ctx, key, cfg.Limit, cfg.Window)
		if err != nil {
			log.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		c.Header(RateLimitLimit, limit)
		c.Header(RateLimitReset, strconv.FormatInt(time.Now().Add(cfg.Window).Unix(), 10))
		if remaining, err := limiter.Remaining(ctx, key, cfg.Limit, cfg.Window); err == nil {
			c.Header(RateLimitRemaining, strconv.Itoa(remaining))
		}

		if !allowed {
			c.Header(RetryAfter, retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apperrors.NewAppError(
				"RATE_LIMIT_EXCEEDED", "too many requests, retry later", http.StatusTooManyRequests, nil,
			).ToResponse())
			return
		}

		c.Next()
	}
}

// RateLimitByUser buckets by authenticated actor, falling back to client IP.
// It must run after Auth.
func RateLimitByUser(limiter outbound.RateLimiterPort, limit int, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	return RateLimit(limiter, RateLimitConfig{
		Limit:   limit,
		Window:  window,
		KeyFunc: actorKey,
	}, log)
}

func clientIPKey(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

func actorKey(c *gin.Context) string {
	if actor := GetActor(c); actor != nil {
		return "user:" + actor.UserID.String()
	}
	return clientIPKey(c)
}
