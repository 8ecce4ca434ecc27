package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/kbukum/apikit/component"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.MetricInterval != 15*time.Second {
		t.Errorf("expected MetricInterval 15s, got %v", cfg.MetricInterval)
	}
	if cfg.Enabled {
		t.Error("expected exporting disabled by default")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"sample rate above one", func(c *Config) { c.SampleRate = 1.5 }, true},
		{"negative sample rate", func(c *Config) { c.SampleRate = -0.1 }, true},
		{"enabled without endpoint", func(c *Config) { c.Enabled = true; c.Endpoint = "" }, true},
		{"disabled without endpoint", func(c *Config) { c.Endpoint = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig("svc")
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
	}
	for _, tt := range tests {
		if got := sampler(tt.rate).Description(); got != tt.want {
			t.Errorf("sampler(%v) = %s, want %s", tt.rate, got, tt.want)
		}
	}
	if got := sampler(0.5).Description(); !strings.Contains(got, "TraceIDRatioBased") {
		t.Errorf("sampler(0.5) = %s, expected ratio based", got)
	}
}

func TestNewResource(t *testing.T) {
	cfg := DefaultConfig("svc")
	cfg.ServiceVersion = "1.2.3"

	res, err := newResource(&cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := map[attribute.Key]string{}
	for _, kv := range res.Attributes() {
		got[kv.Key] = kv.Value.Emit()
	}
	if got["service.name"] != "svc" {
		t.Errorf("expected service.name svc, got %q", got["service.name"])
	}
	if got["service.version"] != "1.2.3" {
		t.Errorf("expected service.version 1.2.3, got %q", got["service.version"])
	}
	if got["environment"] != "development" {
		t.Errorf("expected environment development, got %q", got["environment"])
	}
}

func TestRecordError(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	RecordError(span, errors.New("boom"), "ERROR-6")
	RecordError(span, nil, "ignored")
	span.End()

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status().Code)
	}
	if spans[0].Status().Description != "ERROR-6" {
		t.Errorf("expected description ERROR-6, got %q", spans[0].Status().Description)
	}
	if len(spans[0].Events()) != 1 {
		t.Errorf("expected 1 exception event, got %d", len(spans[0].Events()))
	}
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestClientMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewClientMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	m.RequestStarted(ctx, "GET")
	m.RequestStarted(ctx, "GET")
	m.RequestFinished(ctx, "GET", OutcomeOK, 20*time.Millisecond)
	m.RetryScheduled(ctx, "GET")

	got := collect(t, reader)

	requests, ok := got[MetricRequests].Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected int64 sum for %s, got %T", MetricRequests, got[MetricRequests].Data)
	}
	if len(requests.DataPoints) != 1 || requests.DataPoints[0].Value != 1 {
		t.Fatalf("expected one request data point of 1, got %+v", requests.DataPoints)
	}
	outcome, _ := requests.DataPoints[0].Attributes.Value(AttrOutcome)
	if outcome.AsString() != OutcomeOK {
		t.Errorf("expected outcome ok, got %s", outcome.AsString())
	}

	active, ok := got[MetricRequestsActive].Data.(metricdata.Sum[int64])
	if !ok || len(active.DataPoints) != 1 {
		t.Fatalf("expected one active data point, got %+v", got[MetricRequestsActive].Data)
	}
	if active.DataPoints[0].Value != 1 {
		t.Errorf("expected 1 request in flight, got %d", active.DataPoints[0].Value)
	}

	duration, ok := got[MetricRequestDuration].Data.(metricdata.Histogram[float64])
	if !ok || len(duration.DataPoints) != 1 {
		t.Fatalf("expected one duration data point, got %+v", got[MetricRequestDuration].Data)
	}
	if duration.DataPoints[0].Count != 1 {
		t.Errorf("expected histogram count 1, got %d", duration.DataPoints[0].Count)
	}

	retries, ok := got[MetricRetries].Data.(metricdata.Sum[int64])
	if !ok || len(retries.DataPoints) != 1 || retries.DataPoints[0].Value != 1 {
		t.Errorf("expected one retry, got %+v", got[MetricRetries].Data)
	}
}

func TestClientMetrics_Noop(t *testing.T) {
	m, err := NewClientMetrics(metricnoop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	m.RequestStarted(ctx, "POST")
	m.RequestFinished(ctx, "POST", "ERROR-6", time.Second)
}

func resetGlobals(t *testing.T) {
	t.Cleanup(func() {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		otel.SetMeterProvider(metricnoop.NewMeterProvider())
	})
}

func TestComponent_Disabled(t *testing.T) {
	c := NewComponent(DefaultConfig("svc"))
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusDegraded {
		t.Errorf("expected degraded health, got %s", h.Status)
	}
	if d := c.Describe(); d.Details != "disabled" {
		t.Errorf("expected disabled details, got %q", d.Details)
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop() error: %v", err)
	}
}

func TestComponent_Enabled(t *testing.T) {
	resetGlobals(t)

	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/x-protobuf")
		w.WriteHeader(http.StatusOK)
	}))
	defer collector.Close()

	cfg := DefaultConfig("svc")
	cfg.Enabled = true
	cfg.Endpoint = strings.TrimPrefix(collector.URL, "http://")
	c := NewComponent(cfg)
	ctx := context.Background()

	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s (%s)", h.Status, h.Message)
	}
	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Errorf("expected sdk tracer provider installed, got %T", otel.GetTracerProvider())
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop() error: %v", err)
	}
}

func TestComponent_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig("svc")
	cfg.Enabled = true
	cfg.SampleRate = 3
	c := NewComponent(cfg)

	if err := c.Start(context.Background()); err == nil {
		t.Fatal("expected validation error")
	}
}
