// Package session tracks who is acting on behalf of a request.
package session

import "context"

// DefaultFallback is the principal label used when nobody is logged in.
const DefaultFallback = "System"

// Principal is the operator acting in a request.
type Principal struct {
	OperatorID int64
	Username   string
	Name       string
	Role       string
}

// DisplayName returns the name recorded on movements.
func (p Principal) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Username
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal carried by ctx, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Resolver answers "who is active" from the request context.
type Resolver struct {
	// Fallback is returned when ctx carries no principal. Empty means
	// DefaultFallback.
	Fallback string
}

// Principal returns the display name of the active principal or the
// fallback label.
func (r Resolver) Principal(ctx context.Context) string {
	if p, ok := FromContext(ctx); ok {
		if name := p.DisplayName(); name != "" {
			return name
		}
	}
	if r.Fallback != "" {
		return r.Fallback
	}
	return DefaultFallback
}
