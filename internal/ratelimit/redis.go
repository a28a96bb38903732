package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// slidingWindowScript prunes, counts, and records in one atomic round trip.
// Scores are microsecond timestamps; members are unique so simultaneous
// attempts never collapse into a single entry. Returns
// {allowed, remaining, oldest_score}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local count = redis.call('ZCARD', key)

if count >= limit then
	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	return {0, 0, tonumber(oldest[2])}
end

redis.call('ZADD', key, now, member)
redis.call('PEXPIRE', key, math.ceil(window / 1000) + 60000)
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
return {1, limit - count - 1, tonumber(oldest[2])}
`)

// RedisLimiter is a sliding window limiter backed by a Redis sorted set,
// suitable when multiple instances must share one quota.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

// Allow checks the key against the window and records the attempt when
// admitted.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := time.Now()
	raw, err := slidingWindowScript.Run(ctx, l.client,
		[]string{redisKeyPrefix + key},
		now.UnixMicro(),
		l.window.Microseconds(),
		l.limit,
		uuid.NewString(),
	).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit script: %w", err)
	}

	return l.decisionFromReply(raw)
}

// decisionFromReply turns the script's {allowed, remaining, oldest_score}
// reply into a Decision.
func (l *RedisLimiter) decisionFromReply(raw interface{}) (Decision, error) {
	vals, ok := raw.([]interface{})
	if !ok || len(vals) != 3 {
		return Decision{}, fmt.Errorf("rate limit script: unexpected reply %v", raw)
	}

	allowed, okAllowed := vals[0].(int64)
	remaining, okRemaining := vals[1].(int64)
	oldestMicro, okOldest := vals[2].(int64)
	if !okAllowed || !okRemaining || !okOldest {
		return Decision{}, fmt.Errorf("rate limit script: unexpected reply %v", raw)
	}

	resetAt := time.UnixMicro(oldestMicro).Add(l.window)
	decision := Decision{
		Allowed:   allowed == 1,
		Limit:     l.limit,
		Remaining: int(remaining),
		ResetAt:   resetAt,
	}
	if !decision.Allowed {
		decision.RetryAfter = time.Until(resetAt)
		if decision.RetryAfter < 0 {
			decision.RetryAfter = 0
		}
	}
	return decision, nil
}

// Reset clears the attempt history for a key.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, redisKeyPrefix+key).Err()
}
