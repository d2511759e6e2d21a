package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks struct tags plus the cross-field catalog rules
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the catalog struct rules registered
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterStructValidation(validateCatalogConfig, CatalogConfig{})
	return &Validator{validate: v}
}

// validateCatalogConfig rejects negative ignore ids; prototype ids are unsigned
// in the game data
func validateCatalogConfig(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(CatalogConfig)
	for _, id := range cfg.IgnoredIDs {
		if id < 0 {
			sl.ReportError(cfg.IgnoredIDs, "IgnoredIDs", "IgnoredIDs", "nonnegative", fmt.Sprint(id))
			return
		}
	}
	if cfg.NeutralTransportID < 0 {
		sl.ReportError(cfg.NeutralTransportID, "NeutralTransportID", "NeutralTransportID", "nonnegative", "")
	}
}

// Validate runs every rule and joins the failures into one error
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msg := fmt.Sprintf("field '%s' failed validation: %s", e.Namespace(), e.Tag())
		if e.Param() != "" {
			msg += "=" + e.Param()
		}
		messages = append(messages, fmt.Sprintf("%s (value: '%v')", msg, e.Value()))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
