package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVerificationTokenRoundTrip(t *testing.T) {
	tm := NewVerificationTokenManager("test-secret", time.Hour)

	token, expiresAt, err := tm.Generate("provider-123", "jane@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "provider-123", claims.Subject)
	require.Equal(t, "jane@example.com", claims.Email)
}

func TestVerificationTokenWrongSecret(t *testing.T) {
	tm := NewVerificationTokenManager("test-secret", time.Hour)
	other := NewVerificationTokenManager("different-secret", time.Hour)

	token, _, err := tm.Generate("provider-123", "jane@example.com")
	require.NoError(t, err)

	_, err = other.Parse(token)
	require.Error(t, err)
}

func TestVerificationTokenExpired(t *testing.T) {
	tm := NewVerificationTokenManager("test-secret", time.Nanosecond)

	token, _, err := tm.Generate("provider-123", "jane@example.com")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = tm.Parse(token)
	require.Error(t, err)
}

func TestVerificationTokenGarbage(t *testing.T) {
	tm := NewVerificationTokenManager("test-secret", time.Hour)

	_, err := tm.Parse("not.a.token")
	require.Error(t, err)

	_, err = tm.Parse("")
	require.Error(t, err)
}

func TestVerificationTokenTTLDefault(t *testing.T) {
	tm := NewVerificationTokenManager("test-secret", 0)

	_, expiresAt, err := tm.Generate("provider-123", "jane@example.com")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)
}
