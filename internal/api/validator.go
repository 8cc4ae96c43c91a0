package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	app_errors "coach-ai/backend/internal/errors"

	"github.com/go-playground/validator/v10"
)

// This file provides a centralized, singleton-based validation helper for API request bodies.

var (
	validate *validator.Validate
	once     sync.Once
)

// getInstance uses sync.Once to safely initialize and return the validator singleton.
func getInstance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		// notmasked rejects the masked form returned by GET /credentials.
		if err := validate.RegisterValidation("notmasked", func(fl validator.FieldLevel) bool {
			return !strings.Contains(fl.Field().String(), "...")
		}); err != nil {
			panic(fmt.Sprintf("failed to register notmasked validation: %v", err))
		}
	})
	return validate
}

// validateRequest checks a payload struct against the rules in its `validate`
// tags. Failures are returned as a wrapped app_errors.ErrValidation with a
// readable message.
func validateRequest(payload interface{}) error {
	v := getInstance()
	err := v.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: an unexpected error occurred during validation: %s", app_errors.ErrValidation, err.Error())
	}

	var errorMessages []string
	for _, fieldErr := range validationErrors {
		// Example output: "Field 'Content' failed on the 'required' tag."
		errMsg := fmt.Sprintf("Field '%s' failed on the '%s' tag", fieldErr.Field(), fieldErr.Tag())
		errorMessages = append(errorMessages, errMsg)
	}

	return fmt.Errorf("%w: %s", app_errors.ErrValidation, strings.Join(errorMessages, "; "))
}

// decodeAndValidate reads a JSON body into payload and validates it.
func decodeAndValidate(body io.Reader, payload interface{}) error {
	if err := json.NewDecoder(body).Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation)
	}
	return validateRequest(payload)
}
