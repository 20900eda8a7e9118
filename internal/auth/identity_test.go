package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestResolveIdentity(t *testing.T) {
	t.Parallel()

	claims := &Claims{
		Email:       "alice@example.com",
		DisplayName: "Alice Ames",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "user-123",
		},
	}

	identity, err := ResolveIdentity(claims)
	require.NoError(t, err)
	require.Equal(t, "user-123", identity.UserID)
	require.Equal(t, "alice@example.com", identity.Email)
	require.Equal(t, "Alice Ames", identity.DisplayName)
}

func TestResolveIdentityMissingSubject(t *testing.T) {
	t.Parallel()

	_, err := ResolveIdentity(&Claims{Email: "alice@example.com"})
	require.ErrorIs(t, err, ErrMissingClaim)

	_, err = ResolveIdentity(nil)
	require.ErrorIs(t, err, ErrMissingClaim)
}

func TestIdentityContextRoundTrip(t *testing.T) {
	t.Parallel()

	want := Identity{UserID: "user-123", Email: "alice@example.com"}
	ctx := ContextWithIdentity(context.Background(), want)

	got, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	require.Equal(t, want, got)

	_, ok = IdentityFromContext(context.Background())
	require.False(t, ok)
}
