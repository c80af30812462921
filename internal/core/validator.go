package core

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"kudosnotify/internal/types"
)

// Validator wraps go-playground/validator for request payload validation.
// A single instance is shared across handlers; the underlying validator
// caches struct metadata and is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// ValidateStruct validates a request struct against its validate tags and
// maps the first failure to a user-facing AppError. Missing required
// fields and malformed emails get distinct codes; everything else falls
// under the missing-field classification, which is what the legacy
// payload contract exposed.
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"request validation failed",
			err,
		)
	}

	first := errs[0]
	code := types.ErrCodeValidationMissingField
	if first.Tag() == "email" {
		code = types.ErrCodeValidationInvalidEmail
	}

	return types.NewAppErrorWithDetails(
		code,
		fmt.Sprintf("invalid request: field %s failed on %q", first.Field(), first.Tag()),
		err,
		map[string]any{"field": first.Field(), "rule": first.Tag()},
	)
}
