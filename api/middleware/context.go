package middleware

import (
	"context"

	"github.com/Tejayenduri9/biryani-boys-backend/pkg/types"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// IdentityFromContext returns the authenticated identity, or a zero value
// when the request is anonymous.
func IdentityFromContext(ctx context.Context) types.Identity {
	if ctx == nil {
		return types.Identity{}
	}
	if v, ok := ctx.Value(ctxIdentity).(types.Identity); ok {
		return v
	}
	return types.Identity{}
}

// UserIDFromContext returns the authenticated uid, or "".
func UserIDFromContext(ctx context.Context) string {
	return IdentityFromContext(ctx).UID
}

// WithIdentity injects the identity into the context.
func WithIdentity(ctx context.Context, identity types.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, identity)
}
