package middleware

import (
	"net/http"
	"strings"

	"clinic-admin-api/internal/apperror"
	"clinic-admin-api/internal/auth"
	"clinic-admin-api/internal/config"
	"clinic-admin-api/internal/logger"
	"clinic-admin-api/internal/metrics"
	"clinic-admin-api/internal/tenant"
	"clinic-admin-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantMiddleware resolves the active tenant for /api requests. The claim
// strategy relies on AuthMiddleware having attached the caller's tenant. The
// header strategy reads cfg.Header and refuses callers from another tenant.
func TenantMiddleware(cfg config.TenantConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, "/api") || cfg.Strategy != config.TenantStrategyHeader {
			c.Next()
			return
		}

		raw := strings.TrimSpace(c.GetHeader(cfg.Header))
		if raw == "" {
			metrics.RecordTenantRejected("missing")
			utils.ErrorResponse(c, http.StatusBadRequest, apperror.CodeMissingTenant,
				cfg.Header+" header is required", nil)
			return
		}
		tenantID, err := uuid.Parse(raw)
		if err != nil || tenantID == uuid.Nil {
			metrics.RecordTenantRejected("malformed")
			utils.ErrorResponse(c, http.StatusBadRequest, apperror.CodeMissingTenant,
				cfg.Header+" header must be a valid UUID", nil)
			return
		}

		ctx := c.Request.Context()
		if identity, ok := auth.FromContext(ctx); ok && identity.TenantID != tenantID {
			metrics.RecordTenantRejected("mismatch")
			logger.FromContext(ctx).Warn("Tenant header does not match caller",
				zap.String("header_tenant", tenantID.String()),
				zap.String("user_tenant", identity.TenantID.String()))
			utils.ErrorResponse(c, http.StatusForbidden, apperror.CodeTenantMismatch,
				"Tenant does not match the authenticated user", nil)
			return
		}

		c.Request = c.Request.WithContext(tenant.WithID(ctx, tenantID))
		c.Set(TenantIDKey, tenantID)
		c.Next()
	}
}
