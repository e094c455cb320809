// internal/app/system/ratelimit/redis.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed-window limiter shared by every instance pointing at the
// same Redis. Each key is a counter that expires with its window.
type Redis struct {
	rdb      *redis.Client
	prefix   string
	limit    int
	duration time.Duration
}

// incrWindow increments the counter and gives it a TTL in the same step.
// A counter found without a TTL gets one too.
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// NewRedis allows limit requests per key per duration. prefix namespaces the
// counters (e.g. "rl:track:").
func NewRedis(rdb *redis.Client, prefix string, limit int, duration time.Duration) *Redis {
	return &Redis{rdb: rdb, prefix: prefix, limit: limit, duration: duration}
}

// Allow increments the counter for key and reports whether it is within the limit.
func (l *Redis) Allow(ctx context.Context, key string) (bool, error) {
	n, err := incrWindow.Run(ctx, l.rdb, []string{l.prefix + key}, l.duration.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	return n <= int64(l.limit), nil
}
