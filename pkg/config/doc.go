// Package config provides configuration management for the preload verifier.
//
// This package loads, validates and holds the configuration read from a
// YAML file, with environment variable overrides and defaults for every
// field that has a sensible one.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("preload.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("preload.yaml")
//
// A missing file is not an error for the CLI; DefaultConfig returns the
// same values a file with no keys would produce.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention PRELOAD_SECTION_FIELD.
// For example:
//
//   - PRELOAD_POLICY_LOGIN_PATTERN overrides policy.login_pattern
//   - PRELOAD_PASSWORD_REQUIRED_LENGTH overrides password.required_length
//   - PRELOAD_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton Pattern
//
// Commands share one process-wide instance. ReloadConfig replaces it only
// when the new file loads and validates, so watch mode can re-read the
// file on every change and keep the last good configuration:
//
//	if err := config.ReloadConfig("preload.yaml"); err != nil {
//	    return err
//	}
//	cfg := config.GetConfig()
//
// Library code should take an explicit *Config instead.
package config
