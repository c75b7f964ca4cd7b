package middleware

import (
	"net/http"

	"clinic-admin-api/internal/apperror"
	"clinic-admin-api/internal/auth"
	"clinic-admin-api/internal/models"
	"clinic-admin-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Role sets behind the route policies
var (
	AnyRole        = []models.Role{models.RoleAdmin, models.RoleUser, models.RoleViewer}
	WriterRoles    = []models.Role{models.RoleAdmin, models.RoleUser}
	AdminOnlyRoles = []models.Role{models.RoleAdmin}
)

// RequireRoles rejects anonymous callers with 401 and callers holding none of
// roles with 403.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.FromContext(c.Request.Context())
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, apperror.CodeUnauthorized,
				"Authentication required", nil)
			return
		}

		if !identity.HasRole(roles...) {
			utils.ErrorResponse(c, http.StatusForbidden, apperror.CodeForbidden,
				"You do not have permission to perform this action", nil)
			return
		}

		c.Next()
	}
}
