package handler

import (
	"errors"
	"fmt"

	"clinic-admin-api/internal/apperror"
	"clinic-admin-api/internal/logger"
	"clinic-admin-api/internal/tenant"
	"clinic-admin-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorTranslator renders the last error a handler pushed with c.Error.
// Classified errors keep their status, code and details. Anything else is
// logged and answered with an opaque INTERNAL_ERROR.
func ErrorTranslator() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		writeError(c, c.Errors.Last().Err)
	}
}

// Recovery turns a panic into an INTERNAL_ERROR response
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.FromContext(c.Request.Context()).Error("Recovered from panic",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"))
		render(c, apperror.ErrInternal)
	})
}

func writeError(c *gin.Context, err error) {
	appErr := classify(err)
	if appErr.Kind == apperror.KindInternal {
		logger.FromContext(c.Request.Context()).Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	render(c, appErr)
}

func classify(err error) *apperror.Error {
	if appErr, ok := apperror.As(err); ok {
		if appErr.Kind == apperror.KindInternal {
			return apperror.ErrInternal
		}
		return appErr
	}
	switch {
	case errors.Is(err, tenant.ErrNoTenant):
		return apperror.ErrMissingTenant
	case errors.Is(err, tenant.ErrTenantMismatch):
		return apperror.ErrTenantMismatch
	default:
		return apperror.ErrInternal
	}
}

func render(c *gin.Context, e *apperror.Error) {
	utils.ErrorResponse(c, e.Status(), e.Code, e.Message, e.Details)
}

// fail pushes err for ErrorTranslator and stops the handler chain
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func invalidParam(name, format string) *apperror.Error {
	return apperror.FieldError(name, fmt.Sprintf("%s must be a valid %s", name, format))
}
