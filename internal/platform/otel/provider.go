// Package otel wires OpenTelemetry tracing for the companion binaries.
package otel

import (
	"context"
	"strings"

	"github.com/louisbranch/dualidade/internal/platform/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Config controls trace export.
type Config struct {
	Endpoint string `env:"DUALIDADE_OTEL_ENDPOINT"`
	Enabled  string `env:"DUALIDADE_OTEL_ENABLED"`
}

// Tracer returns the named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when DUALIDADE_OTEL_ENDPOINT is empty or
// DUALIDADE_OTEL_ENABLED is "false", Setup returns a no-op shutdown function
// and no global provider is registered.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return func(context.Context) error { return nil }, err
	}
	return SetupWithConfig(ctx, serviceName, cfg)
}

// SetupWithConfig is Setup with an explicit configuration.
func SetupWithConfig(ctx context.Context, serviceName string, cfg Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(strings.TrimSpace(cfg.Enabled), "false") {
		return noop, nil
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
