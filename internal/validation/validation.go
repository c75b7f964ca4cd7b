// Package validation checks request bodies and reports every failing field
// at once, keyed by the field's JSON name.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"clinic-admin-api/internal/apperror"
	"clinic-admin-api/internal/models"

	"github.com/go-playground/validator/v10"
)

// Messager supplies human messages keyed "<jsonField>.<tag>".
type Messager interface {
	ValidationMessages() map[string]string
}

// Validator wraps a configured go-playground validator.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

func New() *Validator {
	v := &Validator{
		validate: validator.New(),
		now:      time.Now,
	}

	v.validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.validate.RegisterValidation("future", v.isFuture)
	_ = v.validate.RegisterValidation("role", isRoleCode)

	return v
}

// Struct validates req and returns a VALIDATION_ERROR listing every failing
// field, or nil.
func (v *Validator) Struct(req interface{}) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.ErrInternal.Wrap(err)
	}

	var messages map[string]string
	if m, ok := req.(Messager); ok {
		messages = m.ValidationMessages()
	}

	details := make(map[string][]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()
		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg = defaultMessage(fe)
		}
		details[field] = append(details[field], msg)
	}
	return apperror.Validation(details)
}

func (v *Validator) isFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	return ok && t.After(v.now())
}

func isRoleCode(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		_, ok := models.RoleFromCode(int(fl.Field().Int()))
		return ok
	}
	return false
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " must not exceed " + fe.Param() + " characters"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "email":
		return fe.Field() + " must be a valid email address"
	default:
		return fe.Field() + " is invalid"
	}
}
