package tracing

import (
	"context"
	"errors"
	"testing"
	"time"

	"mercator-hq/preload/pkg/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.TracingConfig
		wantErr     bool
		wantEnabled bool
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
		},
		{
			name: "disabled",
			config: &config.TracingConfig{
				Enabled:     false,
				ServiceName: "test-service",
			},
		},
		{
			name: "enabled otlp",
			config: &config.TracingConfig{
				Enabled:     true,
				Endpoint:    "localhost:4317",
				ServiceName: "test-service",
				SampleRatio: 0.5,
				Insecure:    true,
				Timeout:     time.Second,
			},
			wantEnabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if tracer.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", tracer.Enabled(), tt.wantEnabled)
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = tracer.Shutdown(ctx)
		})
	}
}

func TestDisabledTracerSpans(t *testing.T) {
	tracer, err := New(&config.TracingConfig{})
	if err != nil {
		t.Fatal(err)
	}

	ctx, span := tracer.Start(context.Background(), "noop")
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Error("noop tracer produced a valid span context")
	}
	if got := TraceID(ctx); got != "" {
		t.Errorf("TraceID() = %q, want empty", got)
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestRecordedSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	cfg := &config.TracingConfig{Enabled: true, ServiceName: "test", SampleRatio: 1}
	tracer, err := newWithExporter(cfg, sdktrace.WithSyncer(exporter))
	if err != nil {
		t.Fatal(err)
	}

	ctx, span := tracer.Start(context.Background(), "preload.verify")
	if TraceID(ctx) == "" {
		t.Error("TraceID() is empty for a sampled span")
	}
	SetRunAttributes(span, "run-1", "batch.csv")
	SetResultAttributes(span, 12, 3, "rep-1")
	SetError(span, errors.New("boom"))
	SetStatus(span, errors.New("boom"))
	span.End()

	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	got := spans[0]
	if got.Name != "preload.verify" {
		t.Errorf("span name = %q", got.Name)
	}
	if got.Status.Code != codes.Error {
		t.Errorf("status = %v, want Error", got.Status.Code)
	}

	want := map[attribute.Key]attribute.Value{
		AttrRunID:      attribute.StringValue("run-1"),
		AttrSource:     attribute.StringValue("batch.csv"),
		AttrRows:       attribute.IntValue(12),
		AttrViolations: attribute.IntValue(3),
		AttrReportID:   attribute.StringValue("rep-1"),
	}
	for _, kv := range got.Attributes {
		if v, ok := want[kv.Key]; ok {
			if v != kv.Value {
				t.Errorf("attribute %s = %v, want %v", kv.Key, kv.Value.Emit(), v.Emit())
			}
			delete(want, kv.Key)
		}
	}
	if len(want) != 0 {
		t.Errorf("missing attributes: %v", want)
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, "AlwaysOnSampler"},
		{2, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		got := createSampler(tt.ratio).Description()
		want := "ParentBased{root:" + tt.want
		if len(got) < len(want) || got[:len(want)] != want {
			t.Errorf("createSampler(%v) = %s, want prefix %s", tt.ratio, got, want)
		}
	}
}
