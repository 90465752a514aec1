package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// acquireScript checks and increments atomically so a rejected request never
// consumes quota, and concurrent callers sharing a key cannot race past the
// limit. The key keeps a TTL of two windows so stale windows expire on their
// own.
var acquireScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[1]) then
  return 0
end
redis.call('INCR', KEYS[1])
if current == 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return 1
`)

// Redis is a Limiter backed by a shared Redis instance, usable across
// replicas of the service.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis limiter.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		client: client,
		prefix: "ratelimit:",
	}
}

// TryAcquire implements Limiter.
func (r *Redis) TryAcquire(ctx context.Context, key string, maxRequests int, window time.Duration) (bool, error) {
	if maxRequests < 1 || window <= 0 {
		return false, nil
	}

	index := time.Now().UnixMilli() / window.Milliseconds()
	fk := fmt.Sprintf("%s%s:%d", r.prefix, key, index)

	admitted, err := acquireScript.Run(ctx, r.client, []string{fk}, maxRequests, 2*window.Milliseconds()).Int()
	if err != nil {
		return false, err
	}

	return admitted == 1, nil
}
