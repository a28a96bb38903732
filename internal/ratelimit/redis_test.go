package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRedisLimiterDecisionFromReply(t *testing.T) {
	l := NewRedisLimiter(nil, 5, time.Minute)

	oldest := time.Now().Add(-20 * time.Second)
	decision, err := l.decisionFromReply([]interface{}{int64(1), int64(3), oldest.UnixMicro()})
	require.NoError(t, err)
	require.True(t, decision.Allowed)
	require.Equal(t, 5, decision.Limit)
	require.Equal(t, 3, decision.Remaining)
	require.WithinDuration(t, oldest.Add(time.Minute), decision.ResetAt, time.Millisecond)
	require.Zero(t, decision.RetryAfter)
}

func TestRedisLimiterDecisionFromReplyDenied(t *testing.T) {
	l := NewRedisLimiter(nil, 5, time.Minute)

	// Oldest attempt 20s ago in a 60s window leaves roughly 40s to wait.
	oldest := time.Now().Add(-20 * time.Second)
	decision, err := l.decisionFromReply([]interface{}{int64(0), int64(0), oldest.UnixMicro()})
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, 0, decision.Remaining)
	require.InDelta(t, 40, decision.RetryAfter.Seconds(), 1)
}

func TestRedisLimiterDecisionFromReplyClampsNegativeRetryAfter(t *testing.T) {
	l := NewRedisLimiter(nil, 5, time.Minute)

	oldest := time.Now().Add(-2 * time.Minute)
	decision, err := l.decisionFromReply([]interface{}{int64(0), int64(0), oldest.UnixMicro()})
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, time.Duration(0), decision.RetryAfter)
}

func TestRedisLimiterDecisionFromReplyMalformed(t *testing.T) {
	l := NewRedisLimiter(nil, 5, time.Minute)

	_, err := l.decisionFromReply("not a table")
	require.Error(t, err)

	_, err = l.decisionFromReply([]interface{}{int64(1)})
	require.Error(t, err)

	_, err = l.decisionFromReply([]interface{}{"x", "y", "z"})
	require.Error(t, err)
}
