package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/blossom/internal/model"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("frequency", func(fl validator.FieldLevel) bool {
		_, err := model.ParseFrequency(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("focusarea", func(fl validator.FieldLevel) bool {
		_, err := model.ParseFocusArea(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks the configuration and describes every invalid field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("invalid config:\n  %s", strings.Join(msgs, "\n  "))
}

func formatFieldError(e validator.FieldError) string {
	field := formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_with":
		return fmt.Sprintf("%s is required when %s is set", field, strings.ToLower(e.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port", field)
	case "frequency":
		return fmt.Sprintf("%s must be One-time, Monthly or Quarterly", field)
	case "focusarea":
		return fmt.Sprintf("%s must be a known focus area", field)
	default:
		return fmt.Sprintf("%s failed %s", field, e.Tag())
	}
}

// formatFieldPath turns "Config.Daemon.Addr" into "daemon.addr".
func formatFieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, ".")
}
