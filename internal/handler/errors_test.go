package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clinic-admin-api/internal/apperror"
	"clinic-admin-api/internal/tenant"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveWith(t *testing.T, h gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Recovery(), ErrorTranslator())
	r.POST("/test", h)

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestErrorTranslator(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		contains string
		hidden   string
	}{
		{
			name:   "conflict",
			err:    apperror.ErrDuplicatePhone,
			status: http.StatusConflict,
			code:   apperror.CodeDuplicatePhone,
		},
		{
			name:     "wrapped validation keeps details",
			err:      fmt.Errorf("create: %w", apperror.FieldError("phoneNumber", "Phone number is required")),
			status:   http.StatusBadRequest,
			code:     apperror.CodeValidation,
			contains: "Phone number is required",
		},
		{
			name:   "missing tenant from the data layer",
			err:    fmt.Errorf("patients: %w", tenant.ErrNoTenant),
			status: http.StatusBadRequest,
			code:   apperror.CodeMissingTenant,
		},
		{
			name:   "foreign tenant row",
			err:    tenant.ErrTenantMismatch,
			status: http.StatusForbidden,
			code:   apperror.CodeTenantMismatch,
		},
		{
			name:   "unknown error is opaque",
			err:    errors.New("pq: connection refused to 10.0.0.5"),
			status: http.StatusInternalServerError,
			code:   apperror.CodeInternal,
			hidden: "10.0.0.5",
		},
		{
			name:   "internal kind hides its cause",
			err:    apperror.ErrInternal.Wrap(errors.New("secret detail")),
			status: http.StatusInternalServerError,
			code:   apperror.CodeInternal,
			hidden: "secret detail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveWith(t, func(c *gin.Context) { fail(c, tt.err) }, "")

			require.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"code":"`+tt.code+`"`)
			if tt.contains != "" {
				assert.Contains(t, w.Body.String(), tt.contains)
			}
			if tt.hidden != "" {
				assert.NotContains(t, w.Body.String(), tt.hidden)
			}
		})
	}
}

func TestRecoveryRendersInternalError(t *testing.T) {
	w := serveWith(t, func(c *gin.Context) { panic("boom") }, "")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeInternal)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestBindJSON(t *testing.T) {
	var got struct {
		Name string `json:"name"`
	}
	handler := func(c *gin.Context) {
		if !bindJSON(c, &got) {
			return
		}
		c.Status(http.StatusOK)
	}

	w := serveWith(t, handler, `{"name":"ok"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", got.Name)

	w = serveWith(t, handler, `{"name":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"body":["Request body is not valid JSON"]`)

	w = serveWith(t, handler, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Request body is required")

	w = serveWith(t, handler, "  \n")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Request body is required")
}

func TestBindJSON_RejectsOversizedBody(t *testing.T) {
	var got struct {
		Name string `json:"name"`
	}
	handler := func(c *gin.Context) {
		if !bindJSON(c, &got) {
			return
		}
		c.Status(http.StatusOK)
	}

	w := serveWith(t, handler, `{"name":"`+strings.Repeat("a", maxBodyBytes)+`"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"body":["Request body is too large"]`)
	assert.Empty(t, got.Name)
}
