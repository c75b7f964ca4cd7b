package handler

import (
	"errors"
	"io"
	"net/http"

	"clinic-admin-api/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// bindJSON decodes the request body into dst. Undecodable bodies are
// reported as a validation error on "body"; field rules are checked by the
// services.
func bindJSON(c *gin.Context, dst interface{}) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			fail(c, apperror.FieldError("body", "Request body is required"))
		case errors.As(err, &tooLarge):
			fail(c, apperror.FieldError("body", "Request body is too large"))
		default:
			fail(c, apperror.FieldError("body", "Request body is not valid JSON"))
		}
		return false
	}
	return true
}

// uuidParam parses the path parameter name
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		fail(c, invalidParam(name, "UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUIDQuery parses the query parameter name, returning nil when it
// is absent or empty.
func optionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		fail(c, invalidParam(name, "UUID"))
		return nil, false
	}
	return &id, true
}
