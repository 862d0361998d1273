package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys use the "preload.*" namespace.
const (
	AttrRunID      = "preload.run_id"
	AttrSource     = "preload.source"
	AttrRows       = "preload.rows"
	AttrRules      = "preload.rules"
	AttrViolations = "preload.violations"
	AttrDirectory  = "preload.directory.users"
	AttrReportID   = "preload.report_id"
)

// SetRunAttributes tags span with the identity of a verification run.
func SetRunAttributes(span trace.Span, runID, source string) {
	span.SetAttributes(
		attribute.String(AttrRunID, runID),
		attribute.String(AttrSource, source),
	)
}

// SetResultAttributes tags span with the outcome of a verification run.
func SetResultAttributes(span trace.Span, rows, violations int, reportID string) {
	attrs := []attribute.KeyValue{
		attribute.Int(AttrRows, rows),
		attribute.Int(AttrViolations, violations),
	}
	if reportID != "" {
		attrs = append(attrs, attribute.String(AttrReportID, reportID))
	}
	span.SetAttributes(attrs...)
}
