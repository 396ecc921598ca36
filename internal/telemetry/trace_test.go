package telemetry

import (
	"context"
	"testing"
)

func TestInitTracingNoopWithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), "")
	if err != nil {
		t.Fatalf("InitTracing: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("no-op shutdown returned an error: %v", err)
	}
}

func TestStartSpanWithoutConfiguredProviderIsNoop(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test-span")
	defer span.End()
	if ctx == nil {
		t.Fatal("StartSpan returned a nil context")
	}
	if span.SpanContext().IsValid() {
		t.Error("expected the default no-op tracer to produce an invalid span context")
	}
}
