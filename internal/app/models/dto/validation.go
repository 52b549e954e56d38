package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// HandleValidationError converts a binding error into a standard error
// detail. Validator errors become one VAL_001 detail carrying the
// per-field messages; anything else (malformed JSON and the like) becomes
// a generic invalid-request detail.
func HandleValidationError(err error) *ErrorDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewErrorDetail(ErrorCodeResourceInvalid, "Invalid request body")
	}

	ve := NewValidationErrors()
	for _, fe := range verrs {
		ve.AddError(fieldName(fe), fieldMessage(fe))
	}

	detail := NewErrorDetail(ErrorCodeValidationFailed, "Validation failed")
	if ve.HasErrors() {
		detail.WithField(ve.Errors[0].Field)
		detail.WithDetails(ve.Errors)
	}
	return detail
}

func fieldName(fe validator.FieldError) string {
	// StructNamespace is Type.Field; drop the type prefix and lowercase
	// the first letter to match the JSON style of the API.
	name := fe.Field()
	if name == "" {
		return fe.StructField()
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("Must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("Must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("Failed %s validation", fe.Tag())
	}
}
