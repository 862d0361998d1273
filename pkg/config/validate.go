package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "policy.login_pattern").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate checks ranges and enumerations. Format patterns are compiled
// later by the rule policy, which reports malformed ones.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validatePolicy(&cfg.Policy)...)
	errs = append(errs, validatePassword(&cfg.Password)...)
	errs = append(errs, validateEvaluation(&cfg.Evaluation)...)
	errs = append(errs, validateReports(&cfg.Reports)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validatePolicy(cfg *PolicyConfig) []FieldError {
	var errs []FieldError

	patterns := []struct {
		field string
		value string
	}{
		{"policy.login_pattern", cfg.LoginPattern},
		{"policy.email_pattern", cfg.EmailPattern},
		{"policy.phone_pattern", cfg.PhonePattern},
		{"policy.person_name_pattern", cfg.PersonNamePattern},
	}
	for _, p := range patterns {
		if p.value == "" {
			errs = append(errs, FieldError{Field: p.field, Message: "pattern is required"})
		}
	}

	if cfg.FullNameMaxLength < 0 {
		errs = append(errs, FieldError{
			Field:   "policy.full_name_max_length",
			Message: "maximum length must not be negative",
		})
	}
	if cfg.PhoneMaxLength < 0 {
		errs = append(errs, FieldError{
			Field:   "policy.phone_max_length",
			Message: "maximum length must not be negative",
		})
	}

	return errs
}

func validatePassword(cfg *PasswordConfig) []FieldError {
	var errs []FieldError

	if cfg.RequiredLength < 0 {
		errs = append(errs, FieldError{
			Field:   "password.required_length",
			Message: "required length must not be negative",
		})
	}
	if cfg.RequiredUniqueChars < 0 {
		errs = append(errs, FieldError{
			Field:   "password.required_unique_chars",
			Message: "required unique characters must not be negative",
		})
	}
	if cfg.RequiredUniqueChars > 0 && cfg.RequiredLength > 0 && cfg.RequiredUniqueChars > cfg.RequiredLength {
		errs = append(errs, FieldError{
			Field:   "password.required_unique_chars",
			Message: fmt.Sprintf("required unique characters (%d) exceed required length (%d)", cfg.RequiredUniqueChars, cfg.RequiredLength),
		})
	}

	return errs
}

func validateEvaluation(cfg *EvaluationConfig) []FieldError {
	if cfg.Workers < 0 {
		return []FieldError{{
			Field:   "evaluation.workers",
			Message: "workers must not be negative",
		}}
	}
	return nil
}

func validateReports(cfg *ReportsConfig) []FieldError {
	var errs []FieldError

	validBackends := map[string]bool{"sqlite": true, "memory": true}
	if !validBackends[cfg.Backend] {
		errs = append(errs, FieldError{
			Field:   "reports.backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'sqlite' or 'memory'", cfg.Backend),
		})
	}

	if cfg.Backend == "sqlite" {
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "reports.sqlite.path",
				Message: "path is required for the sqlite backend",
			})
		}
		if cfg.SQLite.MaxOpenConns < 0 {
			errs = append(errs, FieldError{
				Field:   "reports.sqlite.max_open_conns",
				Message: "must not be negative",
			})
		}
		if cfg.SQLite.MaxIdleConns > cfg.SQLite.MaxOpenConns && cfg.SQLite.MaxOpenConns > 0 {
			errs = append(errs, FieldError{
				Field:   "reports.sqlite.max_idle_conns",
				Message: "must not exceed max_open_conns",
			})
		}
	}

	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "reports.retention.days",
			Message: "retention days must not be negative",
		})
	}
	if cfg.Retention.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "reports.retention.max_records",
			Message: "max records must not be negative",
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Path == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path is required when metrics are enabled",
		})
	}
	if cfg.Metrics.Path != "" && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with '/'",
		})
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	return errs
}
