package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"clinic-admin-api/internal/apperror"
	"clinic-admin-api/internal/auth"
	"clinic-admin-api/internal/config"
	"clinic-admin-api/internal/logger"
	"clinic-admin-api/internal/models"
	"clinic-admin-api/internal/repository"
	"clinic-admin-api/internal/tenant"
	"clinic-admin-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin context keys set by the auth and tenant middleware
const (
	UserIDKey   = "userID"
	RoleKey     = "role"
	TenantIDKey = "tenantID"
)

// TokenResolver finds the user a hashed API token belongs to, across all
// tenants.
type TokenResolver interface {
	FindUserByTokenHash(ctx context.Context, tokenHash string) (*models.User, error)
}

// AuthMiddleware resolves a bearer API token into the caller's identity.
// Requests whose credential is missing, malformed or unknown pass through
// without an identity and are rejected later by RequireRoles. Under the
// claim strategy the user's tenant becomes the active tenant.
func AuthMiddleware(users TokenResolver, strategy string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			logger.FromContext(ctx).Debug("Ignoring malformed authorization header")
			c.Next()
			return
		}

		user, err := users.FindUserByTokenHash(ctx, utils.HashToken(parts[1]))
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				logger.FromContext(ctx).Error("Failed to resolve API token", zap.Error(err))
				utils.ErrorResponse(c, http.StatusInternalServerError, apperror.CodeInternal,
					"An unexpected error occurred", nil)
				return
			}
			logger.FromContext(ctx).Debug("Unknown API token")
			c.Next()
			return
		}

		identity := auth.Identity{
			UserID:   user.ID,
			TenantID: user.TenantID,
			Role:     user.Role,
			Email:    user.Email,
		}
		ctx = auth.WithIdentity(ctx, identity)
		if strategy == config.TenantStrategyClaim {
			ctx = tenant.WithID(ctx, user.TenantID)
			c.Set(TenantIDKey, user.TenantID)
		}
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(zap.String("user_id", user.ID.String())))
		c.Request = c.Request.WithContext(ctx)

		c.Set(UserIDKey, user.ID)
		c.Set(RoleKey, user.Role)

		c.Next()
	}
}
