// Package telemetry installs the OpenTelemetry trace provider.
package telemetry

import (
	"context"
	"os"

	"github.com/dmitrijs2005/mylibrary/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ShutdownFunc flushes and stops the provider.
type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

var newExporter = otlptracegrpc.New

// Setup exports traces over OTLP/gRPC to endpoint, or to
// OTEL_EXPORTER_OTLP_ENDPOINT when endpoint is empty. Without either it
// installs nothing. Exporter failures are logged and tracing stays off.
func Setup(ctx context.Context, serviceName, endpoint string, logger logging.Logger) ShutdownFunc {
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}
	if endpoint == "" {
		return noop
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	if os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true" {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := newExporter(ctx, opts...)
	if err != nil {
		logger.Error(ctx, "otel exporter error", "error", err)
		return noop
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		logger.Warn(ctx, "otel resource error", "error", err)
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	logger.Info(ctx, "tracing enabled", "endpoint", endpoint)
	return provider.Shutdown
}
