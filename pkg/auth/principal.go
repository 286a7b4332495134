package auth

import (
	"context"

	"github.com/google/uuid"
)

// Principal is the authenticated admin behind a request.
type Principal struct {
	AdminID   uuid.UUID
	Email     string
	Name      string
	SessionID string
}

// DisplayName prefers the admin's name and falls back to the email.
func (p Principal) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}

type principalKey struct{}

// WithPrincipal stores p on ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
