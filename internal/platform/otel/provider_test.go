package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/dualidade/internal/platform/otel"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("DUALIDADE_OTEL_ENDPOINT", "")
	t.Setenv("DUALIDADE_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupWithConfig_NoopWhenExplicitlyDisabled(t *testing.T) {
	shutdown, err := otel.SetupWithConfig(context.Background(), "test-service", otel.Config{
		Endpoint: "http://localhost:4318",
		Enabled:  "FALSE",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupWithConfig_CreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so nothing is exported.
	shutdown, err := otel.SetupWithConfig(context.Background(), "test-service", otel.Config{
		Endpoint: "http://192.0.2.1:4318",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestTracerStartsSpans(t *testing.T) {
	_, span := otel.Tracer("test").Start(context.Background(), "roll")
	defer span.End()
	if span == nil {
		t.Fatal("expected span")
	}
}
