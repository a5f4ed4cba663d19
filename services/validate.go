package services

import (
	"github.com/go-playground/validator/v10"

	"eco-swift-backend/apperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput checks an input struct at the operation boundary and maps
// failures to the validation error code.
func validateInput(input interface{}) error {
	if err := validate.Struct(input); err != nil {
		return apperr.Validation(err.Error())
	}
	return nil
}
