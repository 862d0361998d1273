package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention PRELOAD_SECTION_FIELD and always take precedence over the file.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like LoadConfigWithEnvOverrides but starts from
// DefaultConfig when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		ApplyEnvOverrides(cfg)
		if err := Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
		}
		return cfg, nil
	}
	return LoadConfigWithEnvOverrides(path)
}

// ApplyEnvOverrides applies PRELOAD_* environment variables to cfg.
// Values that fail to parse are ignored.
func ApplyEnvOverrides(cfg *Config) {
	// Policy overrides
	setString("PRELOAD_POLICY_LOGIN_PATTERN", &cfg.Policy.LoginPattern)
	setString("PRELOAD_POLICY_EMAIL_PATTERN", &cfg.Policy.EmailPattern)
	setString("PRELOAD_POLICY_PHONE_PATTERN", &cfg.Policy.PhonePattern)
	setString("PRELOAD_POLICY_PERSON_NAME_PATTERN", &cfg.Policy.PersonNamePattern)
	setInt("PRELOAD_POLICY_FULL_NAME_MAX_LENGTH", &cfg.Policy.FullNameMaxLength)
	setInt("PRELOAD_POLICY_PHONE_MAX_LENGTH", &cfg.Policy.PhoneMaxLength)

	// Password overrides
	setInt("PRELOAD_PASSWORD_REQUIRED_LENGTH", &cfg.Password.RequiredLength)
	setBoolPtr("PRELOAD_PASSWORD_REQUIRE_NON_ALPHANUMERIC", &cfg.Password.RequireNonAlphanumeric)
	setBoolPtr("PRELOAD_PASSWORD_REQUIRE_DIGIT", &cfg.Password.RequireDigit)
	setBoolPtr("PRELOAD_PASSWORD_REQUIRE_LOWERCASE", &cfg.Password.RequireLowercase)
	setBoolPtr("PRELOAD_PASSWORD_REQUIRE_UPPERCASE", &cfg.Password.RequireUppercase)
	setInt("PRELOAD_PASSWORD_REQUIRED_UNIQUE_CHARS", &cfg.Password.RequiredUniqueChars)

	// Evaluation overrides
	setInt("PRELOAD_EVALUATION_WORKERS", &cfg.Evaluation.Workers)

	// Reports overrides
	if val := os.Getenv("PRELOAD_REPORTS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Reports.Enabled = b
		}
	}
	setString("PRELOAD_REPORTS_BACKEND", &cfg.Reports.Backend)
	setString("PRELOAD_REPORTS_SQLITE_PATH", &cfg.Reports.SQLite.Path)
	setBoolPtr("PRELOAD_REPORTS_MASK_PASSWORDS", &cfg.Reports.MaskPasswords)
	setInt("PRELOAD_REPORTS_RETENTION_DAYS", &cfg.Reports.Retention.Days)
	setInt("PRELOAD_REPORTS_RETENTION_MAX_RECORDS", &cfg.Reports.Retention.MaxRecords)
	setString("PRELOAD_REPORTS_RETENTION_PRUNE_SCHEDULE", &cfg.Reports.Retention.PruneSchedule)

	// Watch overrides
	if val := os.Getenv("PRELOAD_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}

	// Telemetry overrides
	setString("PRELOAD_TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	setString("PRELOAD_TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	if val := os.Getenv("PRELOAD_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	setString("PRELOAD_TELEMETRY_METRICS_LISTEN_ADDRESS", &cfg.Telemetry.Metrics.ListenAddress)
	if val := os.Getenv("PRELOAD_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	setString("PRELOAD_TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	if val := os.Getenv("PRELOAD_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}

func setString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func setBoolPtr(key string, dst **bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = &b
		}
	}
}
