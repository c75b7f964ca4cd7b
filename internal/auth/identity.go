// Package auth carries the authenticated caller through a request.
package auth

import (
	"context"

	"github.com/google/uuid"

	"clinic-admin-api/internal/models"
)

// Identity is the user a bearer token resolved to.
type Identity struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Role     models.Role
	Email    string
}

// HasRole reports whether the identity holds one of roles.
func (i Identity) HasRole(roles ...models.Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

type contextKey string

const identityKey contextKey = "identity"

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext returns the caller's identity, if one was resolved.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// ActorID returns the caller's user id for audit records, or nil for
// anonymous callers.
func ActorID(ctx context.Context) *uuid.UUID {
	id, ok := FromContext(ctx)
	if !ok {
		return nil
	}
	uid := id.UserID
	return &uid
}
