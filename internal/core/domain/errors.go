package domain

import (
	"errors"
	"strings"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrPageOutOfRange     = errors.New("page does not exist")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrQuotaExceeded      = errors.New("owned users quota exceeded")
	ErrUsernameTaken      = errors.New("username already used")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMalformedBody      = errors.New("malformed request body")
	ErrValidation         = errors.New("validation failed")
)

// ForbiddenError is an ownership or role refusal with a caller-facing reason.
type ForbiddenError struct {
	Reason string
}

func Forbidden(reason string) error {
	return &ForbiddenError{Reason: reason}
}

func (e *ForbiddenError) Error() string { return e.Reason }

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

// Violation is a single field-level validation failure.
type Violation struct {
	PropertyPath string `json:"propertyPath"`
	Message      string `json:"message"`
}

// ValidationError carries every violation found in one request.
type ValidationError struct {
	Violations []Violation
}

func NewValidationError(violations ...Violation) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.PropertyPath+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
