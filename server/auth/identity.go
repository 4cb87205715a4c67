package auth

import "context"

type ownerKeyType struct{}

var ownerKey = ownerKeyType{}

// WithOwner records the verified owner identity in the request context.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey, ownerID)
}

// OwnerID returns the verified owner identity, or "" when none is present.
func OwnerID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if id, ok := ctx.Value(ownerKey).(string); ok {
		return id
	}

	return ""
}
