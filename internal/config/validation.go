package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func newValidator() (*validator.Validate, error) {
	v := validator.New()

	if err := v.RegisterValidation("environment", func(fl validator.FieldLevel) bool {
		return validEnvironments[fl.Field().String()]
	}); err != nil {
		return nil, err
	}

	if err := v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		return validLogLevels[fl.Field().String()]
	}); err != nil {
		return nil, err
	}

	return v, nil
}

// Validate checks the configuration against its struct tags.
func Validate(cfg *Config) error {
	v, err := newValidator()
	if err != nil {
		return fmt.Errorf("failed to build validator: %w", err)
	}

	if err := v.Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				return fmt.Errorf("invalid config field %s: failed %q validation", fe.Namespace(), fe.Tag())
			}
		}
		return err
	}

	return nil
}
