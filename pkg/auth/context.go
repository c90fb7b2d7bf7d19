package auth

import (
	"context"
)

type contextKey string

// ContextKeyPrincipal is the context key for the authenticated API caller
const ContextKeyPrincipal contextKey = "principal"

// AnonymousActor is recorded as the actor of changes made without authentication.
const AnonymousActor = "anonymous"

// Principal identifies the caller of the management API
type Principal struct {
	Subject string
	Email   string
}

// WithPrincipal adds the principal to the context
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ContextKeyPrincipal, p)
}

// PrincipalFromContext retrieves the principal from the context
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(ContextKeyPrincipal).(*Principal)
	return p, ok && p != nil
}

// ActorFromContext returns the name recorded on audit events for the caller:
// the email when present, otherwise the subject, otherwise AnonymousActor.
func ActorFromContext(ctx context.Context) string {
	p, ok := PrincipalFromContext(ctx)
	switch {
	case !ok:
		return AnonymousActor
	case p.Email != "":
		return p.Email
	default:
		return p.Subject
	}
}
