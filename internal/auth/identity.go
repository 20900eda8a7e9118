package auth

import (
	"context"
	"errors"
)

// ErrMissingClaim indicates a validated token without a usable subject
// claim. That only happens with forged or corrupted tokens, so it is never
// silently defaulted.
var ErrMissingClaim = errors.New("missing required claim")

// Identity is the caller identity every ownership check runs against.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
}

type contextKey string

const identityKey = contextKey("callerIdentity")

// ResolveIdentity projects validated claims into a caller identity.
func ResolveIdentity(claims *Claims) (Identity, error) {
	if claims == nil || claims.Subject == "" {
		return Identity{}, ErrMissingClaim
	}
	return Identity{
		UserID:      claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	}, nil
}

// IdentityFromContext returns the caller identity stored by the auth
// middleware, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// ContextWithIdentity returns a context carrying identity. Used by the
// middleware and by tests that exercise handlers directly.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}
