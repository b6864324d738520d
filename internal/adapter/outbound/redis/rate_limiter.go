package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/uniedit/payrecon/internal/port/outbound"
)

const rateLimitKeyPrefix = "payrecon:ratelimit:"

// slidingWindow trims the window, then records the request only while the
// bucket is under the limit. Returns 1 when admitted.
//
// KEYS[1] bucket, ARGV: now, window start, limit, member, ttl ms.
var slidingWindow = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[2])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[3]) then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[1], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1
`)

// rateLimiter implements outbound.RateLimiterPort with one sorted set per
// bucket, scored by request time.
type rateLimiter struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter adapter.
func NewRateLimiter(client redis.UniversalClient) outbound.RateLimiterPort {
	return &rateLimiter{client: client, now: time.Now}
}

func (r *rateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := r.now().UnixNano()
	admitted, err := slidingWindow.Run(ctx, r.client,
		[]string{rateLimitKeyPrefix + key},
		now,
		now-window.Nanoseconds(),
		limit,
		strconv.FormatInt(now, 36)+"-"+uuid.NewString()[:8],
		window.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return admitted == 1, nil
}

func (r *rateLimiter) Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	now := r.now().UnixNano()
	count, err := r.client.ZCount(ctx, rateLimitKeyPrefix+key,
		strconv.FormatInt(now-window.Nanoseconds(), 10), "+inf").Result()
	if err != nil {
		return 0, err
	}
	return max(limit-int(count), 0), nil
}

// Compile-time check
var _ outbound.RateLimiterPort = (*rateLimiter)(nil)
