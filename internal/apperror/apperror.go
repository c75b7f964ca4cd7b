// Package apperror defines the typed errors services return and the HTTP
// status and code each one renders as.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the boundary translator.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindMissingTenant
)

// Error codes in response bodies
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeMissingTenant    = "MISSING_TENANT"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeTenantMismatch   = "TENANT_MISMATCH"
	CodeNotFound         = "NOT_FOUND"
	CodeDuplicatePhone   = "DUPLICATE_PHONE"
	CodeDuplicateBooking = "DUPLICATE_BOOKING"
	CodeDuplicateEmail   = "DUPLICATE_EMAIL"
	CodeInternal         = "INTERNAL_ERROR"
)

// Error is a classified, client-presentable error. Err, when set, is the
// underlying cause and is never rendered.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string][]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches errors of the same code so sentinels below work with errors.Is
// even after Wrap.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Status returns the HTTP status for the error's kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindMissingTenant:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

var (
	ErrDuplicatePhone = &Error{
		Kind:    KindConflict,
		Code:    CodeDuplicatePhone,
		Message: "Phone number already exists for this tenant",
	}
	ErrDuplicateBooking = &Error{
		Kind:    KindConflict,
		Code:    CodeDuplicateBooking,
		Message: "An appointment already exists for this patient at the same branch and time",
	}
	ErrDuplicateEmail = &Error{
		Kind:    KindConflict,
		Code:    CodeDuplicateEmail,
		Message: "A user with this email already exists in this tenant",
	}
	ErrUnauthorized = &Error{
		Kind:    KindUnauthorized,
		Code:    CodeUnauthorized,
		Message: "Authentication is required",
	}
	ErrForbidden = &Error{
		Kind:    KindForbidden,
		Code:    CodeForbidden,
		Message: "You do not have permission to perform this action",
	}
	ErrTenantMismatch = &Error{
		Kind:    KindForbidden,
		Code:    CodeTenantMismatch,
		Message: "The requested tenant does not match the authenticated user",
	}
	ErrMissingTenant = &Error{
		Kind:    KindMissingTenant,
		Code:    CodeMissingTenant,
		Message: "A valid tenant identifier is required",
	}
	ErrInternal = &Error{
		Kind:    KindInternal,
		Code:    CodeInternal,
		Message: "An unexpected error occurred",
	}
)

// NotFound reports a missing resource, e.g. NotFound("User").
func NotFound(resource string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeNotFound,
		Message: resource + " not found",
	}
}

// Validation reports field errors grouped by field name.
func Validation(details map[string][]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    CodeValidation,
		Message: "One or more validation errors occurred",
		Details: details,
	}
}

// FieldError is Validation for a single field and message.
func FieldError(field, message string) *Error {
	return Validation(map[string][]string{field: {message}})
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
