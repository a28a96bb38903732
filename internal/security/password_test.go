package security

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hashed, err := HashPassword("Passw0rd!", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "Passw0rd!", hashed)

	require.NoError(t, VerifyPassword(hashed, "Passw0rd!"))
	require.Error(t, VerifyPassword(hashed, "wrong-password"))
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	first, err := HashPassword("Passw0rd!", bcrypt.MinCost)
	require.NoError(t, err)

	second, err := HashPassword("Passw0rd!", bcrypt.MinCost)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}
