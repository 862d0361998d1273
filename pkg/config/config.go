package config

import "time"

// Config is the root configuration structure for the preload verifier.
type Config struct {
	// Policy contains the format patterns and length limits applied to
	// imported rows.
	Policy PolicyConfig `yaml:"policy"`

	// Password contains the password strength requirements.
	Password PasswordConfig `yaml:"password"`

	// Evaluation controls how rows are scheduled across workers.
	Evaluation EvaluationConfig `yaml:"evaluation"`

	// Reports controls persistence of verification reports.
	Reports ReportsConfig `yaml:"reports"`

	// Watch controls re-verification when input files change.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry contains configuration for logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// PolicyConfig contains the format rules for imported user fields.
// Patterns use RE2 syntax.
type PolicyConfig struct {
	// LoginPattern is matched against logins. Matching is case-sensitive.
	// Default: "^[a-zA-Z0-9_]{3,15}$"
	LoginPattern string `yaml:"login_pattern"`

	// EmailPattern is matched against non-empty emails, ignoring case.
	EmailPattern string `yaml:"email_pattern"`

	// PhonePattern is matched against non-empty phone numbers, ignoring case.
	PhonePattern string `yaml:"phone_pattern"`

	// PersonNamePattern is matched against non-empty full names, ignoring case.
	// Default: letters, spaces, apostrophes, dots and hyphens
	PersonNamePattern string `yaml:"person_name_pattern"`

	// FullNameMaxLength is the maximum full name length in characters.
	// Default: 100
	FullNameMaxLength int `yaml:"full_name_max_length"`

	// PhoneMaxLength is the maximum phone number length in characters.
	// Default: 15
	PhoneMaxLength int `yaml:"phone_max_length"`
}

// PasswordConfig contains password strength requirements. The Require
// fields are pointers so an explicit false in the file is kept.
type PasswordConfig struct {
	// RequiredLength is the minimum password length.
	// Default: 10
	RequiredLength int `yaml:"required_length"`

	// RequireNonAlphanumeric requires a character that is neither a letter nor a digit.
	// Default: true
	RequireNonAlphanumeric *bool `yaml:"require_non_alphanumeric"`

	// RequireDigit requires at least one digit.
	// Default: true
	RequireDigit *bool `yaml:"require_digit"`

	// RequireLowercase requires at least one lowercase letter.
	// Default: true
	RequireLowercase *bool `yaml:"require_lowercase"`

	// RequireUppercase requires at least one uppercase letter.
	// Default: true
	RequireUppercase *bool `yaml:"require_uppercase"`

	// RequiredUniqueChars is the minimum number of distinct characters.
	// Values below 1 disable the check.
	// Default: 1
	RequiredUniqueChars int `yaml:"required_unique_chars"`
}

// EvaluationConfig controls the evaluator worker pool.
type EvaluationConfig struct {
	// Workers is the number of rows evaluated concurrently.
	// 0 means one worker per available CPU.
	// Default: 0
	Workers int `yaml:"workers"`
}

// ReportsConfig controls report history.
type ReportsConfig struct {
	// Enabled stores every verification report.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage backend.
	// Options: "sqlite", "memory"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite backend settings.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// MaskPasswords replaces password values before a report is stored.
	// Default: true
	MaskPasswords *bool `yaml:"mask_passwords"`

	// Retention controls pruning of old reports.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains SQLite report storage settings.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "preload-reports.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode *bool `yaml:"wal_mode"`

	// BusyTimeout is how long a statement waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig controls report pruning.
type RetentionConfig struct {
	// Days is how long reports are kept. 0 keeps them forever.
	// Default: 30
	Days int `yaml:"days"`

	// MaxRecords caps the number of stored reports. 0 means no cap.
	// Default: 0
	MaxRecords int `yaml:"max_records"`

	// PruneSchedule is a standard cron expression for automatic pruning
	// while watching. Empty disables scheduled pruning.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	// Debounce is how long to wait after the last file event before
	// re-verifying.
	// Default: 250ms
	Debounce time.Duration `yaml:"debounce"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging settings.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics settings.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry tracing settings.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactPII enables redaction of passwords, emails and phone numbers.
	// Default: true
	RedactPII *bool `yaml:"redact_pii"`

	// RedactPatterns contains custom redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is where the metrics endpoint listens in watch mode.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "preload"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "verifier"
	Subsystem string `yaml:"subsystem"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service.name resource attribute.
	// Default: "preload"
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the fraction of traces sampled, between 0 and 1.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Insecure disables TLS to the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// Bool returns the value of an optional boolean, or def when unset.
func Bool(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
