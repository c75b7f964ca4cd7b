// Package tenant carries the active tenant through a request and scopes
// every gorm statement against tenant-owned tables to it.
package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type contextKey string

const (
	tenantIDKey   contextKey = "tenant_id"
	unfilteredKey contextKey = "tenant_unfiltered"
)

var (
	// ErrNoTenant is returned when tenant-owned data is touched without an
	// active tenant.
	ErrNoTenant = errors.New("no active tenant")
	// ErrTenantMismatch is returned when a written row names a tenant other
	// than the active one.
	ErrTenantMismatch = errors.New("row tenant does not match active tenant")
)

// WithID returns a copy of ctx whose active tenant is id.
func WithID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantIDKey, id)
}

// FromContext returns the active tenant. The boolean is false when no tenant
// was attached or the attached id is the nil UUID.
func FromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(tenantIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// MustFromContext is FromContext for callers that have already passed the
// tenant resolver; it returns ErrNoTenant instead of a boolean.
func MustFromContext(ctx context.Context) (uuid.UUID, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return uuid.Nil, ErrNoTenant
	}
	return id, nil
}

// WithoutFilter marks ctx as system context: statements run with it see every
// tenant's rows. Only maintenance code (seeding, credential lookup) uses it.
func WithoutFilter(ctx context.Context) context.Context {
	return context.WithValue(ctx, unfilteredKey, true)
}

// IsUnfiltered reports whether ctx was produced by WithoutFilter.
func IsUnfiltered(ctx context.Context) bool {
	v, _ := ctx.Value(unfilteredKey).(bool)
	return v
}
