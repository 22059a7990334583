package middleware

import (
	"context"

	authlink "github.com/ebbhq/authlink"
)

// Identity is the resolved caller a guard decides over.
type Identity struct {
	Subject string
	Name    string
	Roles   authlink.RoleSet
}

type identityContextKey struct{}

// WithIdentity attaches a verified identity to ctx. The application's
// credential layer calls this after verification succeeds, before handing
// the request to guarded handlers.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext returns the identity stored by [WithIdentity].
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(*Identity)
	return id, ok && id != nil
}
