package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for verification run IDs.
	RunIDKey contextKey = "run_id"

	// SourceKey is the context key for the batch source name.
	SourceKey contextKey = "source"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if id, ok := ctx.Value(RunIDKey).(string); ok {
		return id
	}
	return ""
}

// WithSource adds the batch source name to the context.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, SourceKey, source)
}

// GetSource retrieves the batch source name from the context.
func GetSource(ctx context.Context) string {
	if source, ok := ctx.Value(SourceKey).(string); ok {
		return source
	}
	return ""
}

func extractContextFields(ctx context.Context) []any {
	var fields []any
	if id := GetRunID(ctx); id != "" {
		fields = append(fields, "run_id", id)
	}
	if source := GetSource(ctx); source != "" {
		fields = append(fields, "source", source)
	}
	return fields
}
