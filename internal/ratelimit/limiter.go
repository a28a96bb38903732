package ratelimit

import (
	"context"
	"time"
)

// Decision reports the outcome of one rate limit check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	ResetAt    time.Time
}

// Limiter admits or rejects attempts for a client identity within a
// sliding window. Implementations must make the check-and-increment a
// single atomic step per key so concurrent attempts cannot exceed the
// configured limit.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
	Reset(ctx context.Context, key string) error
}
