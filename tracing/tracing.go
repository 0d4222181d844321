// Package tracing sets up the OpenTelemetry trace provider for the
// command line tools.
package tracing

import (
	"context"
	"io"
	"os"

	"go.ntppool.org/common/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// ShutdownFunc flushes and stops the trace provider.
type ShutdownFunc func(context.Context) error

// Config selects the exporter. File takes precedence over the OTLP
// endpoint from OTEL_EXPORTER_OTLP_ENDPOINT; with neither, tracing stays
// a no-op.
type Config struct {
	ServiceName string
	File        string // "-" for stdout
}

// Init installs a global trace provider.
func Init(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	var (
		exporter sdktrace.SpanExporter
		closer   io.Closer
		err      error
	)

	switch {
	case cfg.File != "":
		var w io.Writer = os.Stdout
		if cfg.File != "-" {
			f, err := os.Create(cfg.File)
			if err != nil {
				return nil, err
			}
			w, closer = f, f
		}
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(w))
	case os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "":
		exporter, err = otlptracehttp.New(ctx)
	default:
		return func(context.Context) error { return nil }, nil
	}
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", version.Version()),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if closer != nil {
			if cerr := closer.Close(); err == nil {
				err = cerr
			}
		}
		return err
	}, nil
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(name)
}
