package identity

import (
	"context"

	"github.com/corray333/backend-labs/storefront/internal/service/models/role"
)

// Identity is the verified caller attached to a request.
type Identity struct {
	UserID int64     `json:"id"`
	Email  string    `json:"email"`
	Role   role.Role `json:"role"`
}

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity attached by the auth middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)

	return id, ok
}
