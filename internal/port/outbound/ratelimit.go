package outbound

import (
	"context"
	"time"
)

// RateLimiterPort defines sliding window rate limiting.
type RateLimiterPort interface {
	// Allow records a request for key and reports whether it fits in limit per window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Remaining returns how many requests key may still make in the window.
	Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}
