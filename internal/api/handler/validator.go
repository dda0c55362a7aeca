package handler

import (
	"github.com/bilemo/catalog-api/internal/core/domain"
	"github.com/bilemo/catalog-api/internal/core/validation"
)

// echoValidator adapts the validation engine so Echo can call c.Validate(req).
type echoValidator struct {
	engine *validation.Engine
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator(engine *validation.Engine) *echoValidator {
	return &echoValidator{engine: engine}
}

// Validate satisfies the echo.Validator interface. Violations are returned
// as a *domain.ValidationError.
func (ev *echoValidator) Validate(i any) error {
	if violations := ev.engine.Struct(i); len(violations) > 0 {
		return domain.NewValidationError(violations...)
	}
	return nil
}
