package handler

import "github.com/go-playground/validator/v10"

// formatValidationErrors maps field names to the failed validation tag
// for the error response's details payload.
func formatValidationErrors(err error) interface{} {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errors := make(map[string]string)
		for _, e := range validationErrors {
			errors[e.Field()] = e.Tag()
		}
		return errors
	}
	return nil
}
