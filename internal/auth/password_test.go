package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, salt, err := HashPassword("Secret123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEmpty(t, salt)

	require.True(t, VerifyPassword("Secret123", hash, salt))
	require.False(t, VerifyPassword("secret123", hash, salt))
	require.False(t, VerifyPassword("", hash, salt))
}

func TestHashPasswordFreshSalt(t *testing.T) {
	t.Parallel()

	hash1, salt1, err := HashPassword("same password")
	require.NoError(t, err)
	hash2, salt2, err := HashPassword("same password")
	require.NoError(t, err)

	require.NotEqual(t, salt1, salt2, "salt must be generated fresh per call")
	require.NotEqual(t, hash1, hash2)
}

func TestVerifyPasswordCorruptedStored(t *testing.T) {
	t.Parallel()

	hash, salt, err := HashPassword("Secret123")
	require.NoError(t, err)

	require.False(t, VerifyPassword("Secret123", "not base64 !!!", salt))
	require.False(t, VerifyPassword("Secret123", hash, "not base64 !!!"))

	otherHash, _, err := HashPassword("Secret123")
	require.NoError(t, err)
	// A hash computed under a different salt never verifies.
	require.False(t, VerifyPassword("Secret123", otherHash, salt))
}
