// Package logging provides structured logging with redaction of account data.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging in JSON or text format
//   - Redaction of passwords, emails and phone numbers found in import rows
//   - Context-aware logging with run IDs and source file names
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:     "info",
//	    Format:    "json",
//	    RedactPII: true,
//	})
//
//	logger.Info("row rejected",
//	    "login", "jdoe",
//	    "password", "Secr3t!", // redacted
//	)
//
// Components that accept a plain *slog.Logger get the same redaction
// through Slog:
//
//	ev := evaluator.New(&evaluator.Config{Logger: logger.Slog()})
package logging
