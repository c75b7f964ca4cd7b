package service

import (
	"context"

	"clinic-admin-api/internal/apperror"
	"clinic-admin-api/internal/auth"
	"clinic-admin-api/internal/logger"
	"clinic-admin-api/internal/tenant"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// activeTenant returns the request's tenant or MISSING_TENANT.
func activeTenant(ctx context.Context) (uuid.UUID, error) {
	id, err := tenant.MustFromContext(ctx)
	if err != nil {
		return uuid.Nil, apperror.ErrMissingTenant.Wrap(err)
	}
	return id, nil
}

// recordAudit writes an audit entry for the caller. Failures are logged and
// never fail the action being audited.
func recordAudit(ctx context.Context, audit AuditStore, action, details string) {
	if err := audit.CreateAuditLog(ctx, auth.ActorID(ctx), action, details); err != nil {
		logger.FromContext(ctx).Warn("Failed to write audit log",
			zap.String("action", action), zap.Error(err))
	}
}

// detached keeps ctx's values but not its cancellation, for follow-up work
// that must finish even if the client has gone away.
func detached(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
