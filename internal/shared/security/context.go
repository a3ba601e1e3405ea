// Package security carries the authenticated principal through a request.
package security

import "context"

// Principal is the authenticated caller.
type Principal struct {
	UserID int64
	Login  string
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p.Login != ""
}

// CurrentLogin returns the login of the authenticated caller, if any.
func CurrentLogin(ctx context.Context) (string, bool) {
	p, ok := PrincipalFrom(ctx)
	return p.Login, ok
}
