package config

import "time"

// Default values for configuration fields.
const (
	DefaultLoginPattern      = `^[a-zA-Z0-9_]{3,15}$`
	DefaultEmailPattern      = `^[a-z0-9!#$%&'*+/=?^_{|}~-]+(\.[a-z0-9!#$%&'*+/=?^_{|}~-]+)*@([a-z0-9]([a-z0-9-]*[a-z0-9])?\.)+[a-z0-9]([a-z0-9-]*[a-z0-9])?$`
	DefaultPhonePattern      = `^(\+\s?)?(\(\d+\)|\d+)([\s.\-]?(\(\d+\)|\d+))*$`
	DefaultPersonNamePattern = `^[\p{L}\p{M} '.\-]+$`
	DefaultFullNameMaxLength = 100
	DefaultPhoneMaxLength    = 15

	DefaultPasswordRequiredLength      = 10
	DefaultPasswordRequireClass        = true
	DefaultPasswordRequiredUniqueChars = 1

	DefaultReportsBackend          = "sqlite"
	DefaultReportsSQLitePath       = "preload-reports.db"
	DefaultReportsSQLiteMaxOpen    = 10
	DefaultReportsSQLiteMaxIdle    = 5
	DefaultReportsSQLiteWALMode    = true
	DefaultReportsSQLiteBusy       = 5 * time.Second
	DefaultReportsMaskPasswords    = true
	DefaultRetentionDays           = 30
	DefaultRetentionPruneSchedule  = "0 3 * * *"
	DefaultWatchDebounce           = 250 * time.Millisecond
	DefaultLoggingLevel            = "info"
	DefaultLoggingFormat           = "text"
	DefaultLoggingRedactPII        = true
	DefaultMetricsListenAddress    = "127.0.0.1:9464"
	DefaultMetricsPath             = "/metrics"
	DefaultMetricsNamespace        = "preload"
	DefaultMetricsSubsystem        = "verifier"
	DefaultTracingEndpoint         = "localhost:4317"
	DefaultTracingServiceName      = "preload"
	DefaultTracingSampleRatio      = 1.0
	DefaultTracingTimeout          = 10 * time.Second
)

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every unset field with its default value.
// Fields that are already set are left untouched.
func ApplyDefaults(cfg *Config) {
	applyPolicyDefaults(cfg)
	applyPasswordDefaults(cfg)
	applyReportsDefaults(cfg)
	applyWatchDefaults(cfg)
	applyTelemetryDefaults(cfg)
}

func applyPolicyDefaults(cfg *Config) {
	if cfg.Policy.LoginPattern == "" {
		cfg.Policy.LoginPattern = DefaultLoginPattern
	}
	if cfg.Policy.EmailPattern == "" {
		cfg.Policy.EmailPattern = DefaultEmailPattern
	}
	if cfg.Policy.PhonePattern == "" {
		cfg.Policy.PhonePattern = DefaultPhonePattern
	}
	if cfg.Policy.PersonNamePattern == "" {
		cfg.Policy.PersonNamePattern = DefaultPersonNamePattern
	}
	if cfg.Policy.FullNameMaxLength == 0 {
		cfg.Policy.FullNameMaxLength = DefaultFullNameMaxLength
	}
	if cfg.Policy.PhoneMaxLength == 0 {
		cfg.Policy.PhoneMaxLength = DefaultPhoneMaxLength
	}
}

func applyPasswordDefaults(cfg *Config) {
	p := &cfg.Password
	if p.RequiredLength == 0 {
		p.RequiredLength = DefaultPasswordRequiredLength
	}
	if p.RequireNonAlphanumeric == nil {
		p.RequireNonAlphanumeric = boolPtr(DefaultPasswordRequireClass)
	}
	if p.RequireDigit == nil {
		p.RequireDigit = boolPtr(DefaultPasswordRequireClass)
	}
	if p.RequireLowercase == nil {
		p.RequireLowercase = boolPtr(DefaultPasswordRequireClass)
	}
	if p.RequireUppercase == nil {
		p.RequireUppercase = boolPtr(DefaultPasswordRequireClass)
	}
	if p.RequiredUniqueChars == 0 {
		p.RequiredUniqueChars = DefaultPasswordRequiredUniqueChars
	}
}

func applyReportsDefaults(cfg *Config) {
	r := &cfg.Reports
	if r.Backend == "" {
		r.Backend = DefaultReportsBackend
	}
	if r.SQLite.Path == "" {
		r.SQLite.Path = DefaultReportsSQLitePath
	}
	if r.SQLite.MaxOpenConns == 0 {
		r.SQLite.MaxOpenConns = DefaultReportsSQLiteMaxOpen
	}
	if r.SQLite.MaxIdleConns == 0 {
		r.SQLite.MaxIdleConns = DefaultReportsSQLiteMaxIdle
	}
	if r.SQLite.WALMode == nil {
		r.SQLite.WALMode = boolPtr(DefaultReportsSQLiteWALMode)
	}
	if r.SQLite.BusyTimeout == 0 {
		r.SQLite.BusyTimeout = DefaultReportsSQLiteBusy
	}
	if r.MaskPasswords == nil {
		r.MaskPasswords = boolPtr(DefaultReportsMaskPasswords)
	}
	if r.Retention.Days == 0 {
		r.Retention.Days = DefaultRetentionDays
	}
	if r.Retention.PruneSchedule == "" {
		r.Retention.PruneSchedule = DefaultRetentionPruneSchedule
	}
}

func applyWatchDefaults(cfg *Config) {
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
}

func applyTelemetryDefaults(cfg *Config) {
	l := &cfg.Telemetry.Logging
	if l.Level == "" {
		l.Level = DefaultLoggingLevel
	}
	if l.Format == "" {
		l.Format = DefaultLoggingFormat
	}
	if l.RedactPII == nil {
		l.RedactPII = boolPtr(DefaultLoggingRedactPII)
	}

	m := &cfg.Telemetry.Metrics
	if m.ListenAddress == "" {
		m.ListenAddress = DefaultMetricsListenAddress
	}
	if m.Path == "" {
		m.Path = DefaultMetricsPath
	}
	if m.Namespace == "" {
		m.Namespace = DefaultMetricsNamespace
	}
	if m.Subsystem == "" {
		m.Subsystem = DefaultMetricsSubsystem
	}

	t := &cfg.Telemetry.Tracing
	if t.Endpoint == "" {
		t.Endpoint = DefaultTracingEndpoint
	}
	if t.ServiceName == "" {
		t.ServiceName = DefaultTracingServiceName
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = DefaultTracingSampleRatio
	}
	if t.Timeout == 0 {
		t.Timeout = DefaultTracingTimeout
	}
}

func boolPtr(b bool) *bool {
	return &b
}
