package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "ratelimit:"

// fixedWindow counts hits in KEYS[1] and starts the window on the first hit.
var fixedWindow = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return current
`)

// FixedWindowLimiter allows at most limit hits per key per window.
type FixedWindowLimiter struct {
	client redis.Scripter
	limit  int64
	window time.Duration
}

// NewFixedWindowLimiter creates a FixedWindowLimiter.
func NewFixedWindowLimiter(client redis.Scripter, limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{client: client, limit: int64(limit), window: window}
}

// Allow records a hit for key and reports whether it is within the limit,
// along with how many hits remain in the current window.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, int64, error) {
	if l.limit <= 0 {
		return true, 0, nil
	}
	count, err := fixedWindow.Run(ctx, l.client, []string{rateLimitKeyPrefix + key}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", key, err)
	}
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= l.limit, remaining, nil
}
