// Package tracing installs the OpenTelemetry tracer provider used by the
// store spans.
package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// ServiceName is reported as service.name on every span.
const ServiceName = "posctl"

// Shutdown flushes and stops the tracer provider.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Init installs a global tracer provider that writes spans to w. When
// enabled is false the global no-op provider is left in place.
func Init(enabled bool, w io.Writer, log *zap.Logger) (Shutdown, error) {
	if !enabled {
		return noop, nil
	}
	if log == nil {
		log = zap.NewNop()
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return noop, fmt.Errorf("create stdout exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", ServiceName),
		)),
	)
	otel.SetTracerProvider(tp)
	log.Debug("tracing initialized", zap.String("exporter", "stdout"))

	return func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown tracer provider: %w", err)
		}
		return nil
	}, nil
}
