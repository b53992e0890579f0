// Package otel configures OpenTelemetry tracing for todo.space binaries.
package otel

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/louisbranch/todo.space/internal/platform/config"
)

// Environment variable names read by Setup.
const (
	EnvEndpoint    = config.Prefix + "OTEL_ENDPOINT"
	EnvEnabled     = config.Prefix + "OTEL_ENABLED"
	EnvSampleRatio = config.Prefix + "OTEL_SAMPLE_RATIO"
)

// Settings selects where spans go. An empty Endpoint turns tracing off.
type Settings struct {
	Endpoint    string  `env:"OTEL_ENDPOINT"`
	Enabled     bool    `env:"OTEL_ENABLED" envDefault:"true"`
	SampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Active reports whether the settings ask for an exporter.
func (s Settings) Active() bool {
	return s.Enabled && strings.TrimSpace(s.Endpoint) != ""
}

// Shutdown flushes and stops a tracer provider.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Setup reads Settings from the environment and calls Install.
func Setup(ctx context.Context, service string) (Shutdown, error) {
	var settings Settings
	if err := config.ParseEnvPrefixed(&settings); err != nil {
		return noop, err
	}
	return Install(ctx, service, settings)
}

// Install registers a global tracer provider exporting to settings.Endpoint
// over OTLP/HTTP along with W3C trace-context propagation. Inactive settings
// leave the global no-op provider in place.
func Install(ctx context.Context, service string, settings Settings) (Shutdown, error) {
	if !settings.Active() {
		return noop, nil
	}
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(strings.TrimSpace(settings.Endpoint)))
	if err != nil {
		return noop, fmt.Errorf("otlp exporter: %w", err)
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(service)))
	if err != nil {
		return noop, fmt.Errorf("trace resource: %w", err)
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(settings.SampleRatio)),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return provider.Shutdown, nil
}

func sampler(ratio float64) sdktrace.Sampler {
	if ratio >= 1 {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	if ratio <= 0 {
		return sdktrace.ParentBased(sdktrace.NeverSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}
