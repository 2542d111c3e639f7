package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

func TestParseArgs(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	addr := fs.String("http-addr", "localhost:8080", "address")
	if err := ParseArgs(fs, []string{"-http-addr", "flag:9001"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if *addr != "flag:9001" {
		t.Fatalf("expected flag value, got %q", *addr)
	}
	if err := ParseArgs(nil, nil); err == nil {
		t.Fatal("expected nil parser to be rejected")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), " ", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceCompanion, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryReturnsRunError(t *testing.T) {
	t.Setenv("DUALIDADE_OTEL_ENDPOINT", "")
	want := errors.New("boom")
	ran := false
	err := RunWithTelemetry(context.Background(), ServiceMCP, func(context.Context) error {
		ran = true
		return want
	})
	if !ran {
		t.Fatal("expected run function to be called")
	}
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}
