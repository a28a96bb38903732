package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is a process-local sliding window limiter. Attempt
// timestamps are kept per key and pruned lazily on each check; the prune,
// count, and record steps run under one mutex so the quota holds exactly
// under concurrent requests from the same identity.
type MemoryLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	attempts  map[string][]time.Time
	now       func() time.Time
	nextSweep time.Time
}

// NewMemoryLimiter creates an in-memory limiter.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:    limit,
		window:   window,
		attempts: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Allow checks the key against the window and records the attempt when
// admitted.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// Keys whose owners never return would otherwise hold stale
	// timestamps forever; a periodic full sweep bounds the map size.
	if now.After(l.nextSweep) {
		l.sweep(cutoff)
		l.nextSweep = now.Add(l.window)
	}

	kept := l.attempts[key][:0]
	for _, ts := range l.attempts[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.limit {
		l.attempts[key] = kept
		oldest := kept[0]
		retryAfter := l.window - now.Sub(oldest)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return Decision{
			Allowed:    false,
			Limit:      l.limit,
			Remaining:  0,
			RetryAfter: retryAfter,
			ResetAt:    oldest.Add(l.window),
		}, nil
	}

	kept = append(kept, now)
	l.attempts[key] = kept
	return Decision{
		Allowed:   true,
		Limit:     l.limit,
		Remaining: l.limit - len(kept),
		ResetAt:   kept[0].Add(l.window),
	}, nil
}

// sweep drops expired timestamps across all keys and evicts keys left
// empty. Caller must hold the mutex.
func (l *MemoryLimiter) sweep(cutoff time.Time) {
	for key, timestamps := range l.attempts {
		kept := timestamps[:0]
		for _, ts := range timestamps {
			if ts.After(cutoff) {
				kept = append(kept, ts)
			}
		}
		if len(kept) == 0 {
			delete(l.attempts, key)
		} else {
			l.attempts[key] = kept
		}
	}
}

// Reset clears the attempt history for a key.
func (l *MemoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, key)
	return nil
}
