package middleware

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/adelekeoti/edusiastic-backend/internal/app/models/dto"
)

// NewBindingErrorDetail turns a gin binding error into the standard error
// detail. Field-level validator errors keep their field name so clients can
// highlight the offending input.
func NewBindingErrorDetail(err error) *dto.ErrorDetail {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		first := validationErrs[0]

		messages := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			messages = append(messages, formatValidationError(fieldErr))
		}

		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, formatValidationError(first)).
			WithField(lowerFirst(first.Field())).
			WithDetails(messages)
	}

	return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").
		WithDetails(err.Error())
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := lowerFirst(e.Field())
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "gt":
		return field + " must be greater than " + e.Param()
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + e.Param()
	default:
		return field + " validation failed: " + e.Tag()
	}
}

// lowerFirst maps the Go struct field name to its JSON spelling
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
