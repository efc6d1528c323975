package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator is a wrapper around go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance. Field names in errors are the
// mapstructure keys, so messages match what users write in config.yaml.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	return &Validator{
		validate: v,
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func (v *Validator) formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s (value: '%v')",
				configKey(e.Namespace()),
				e.Tag(),
				e.Value(),
			))
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return err
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	v := NewValidator()
	if err := v.Validate(cfg); err != nil {
		return err
	}

	// Cross-field rules the tags cannot express
	if cfg.Engine.RestrictedCargoFraction > cfg.Engine.ReturnCargoFraction {
		return fmt.Errorf("engine.restricted_cargo_fraction (%.2f) must not exceed engine.return_cargo_fraction (%.2f)",
			cfg.Engine.RestrictedCargoFraction, cfg.Engine.ReturnCargoFraction)
	}
	if cfg.Database.Type == "postgres" && cfg.Database.URL == "" && (cfg.Database.Host == "" || cfg.Database.Name == "") {
		return fmt.Errorf("database.type postgres needs database.url or both database.host and database.name")
	}
	if cfg.Journal.Enabled && !cfg.Journal.Database && cfg.Journal.FilePath == "" {
		return fmt.Errorf("journal is enabled but neither journal.database nor journal.file_path is set")
	}
	return nil
}

// configKey turns a validator namespace such as "Config.engine.turn_deadline"
// into the dotted config key "engine.turn_deadline"
func configKey(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
