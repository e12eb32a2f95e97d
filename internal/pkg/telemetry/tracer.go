package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of every span this module emits.
const TracerName = "github.com/samirrijal/haversine"

// Exporters
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Options selects how spans leave the process.
type Options struct {
	ServiceName string
	Exporter    string
	Endpoint    string
	// Writer receives stdout exporter output. Defaults to os.Stderr.
	Writer io.Writer
}

// InitTracer installs a global tracer provider. The returned function
// flushes pending spans and must be called before exit.
func InitTracer(ctx context.Context, opts Options) (func(context.Context) error, error) {
	var spanOpt sdktrace.TracerProviderOption

	switch opts.Exporter {
	case ExporterStdout, "":
		w := opts.Writer
		if w == nil {
			w = os.Stderr
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		spanOpt = sdktrace.WithSyncer(exp)
	case ExporterOTLP:
		exp, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(opts.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
		spanOpt = sdktrace.WithBatcher(exp)
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", opts.Exporter)
	}

	res := resource.NewWithAttributes("",
		attribute.String("service.name", opts.ServiceName),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		spanOpt,
	)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown tracer provider: %w", err)
		}
		return nil
	}, nil
}

// Tracer returns the module tracer from the global provider. Without
// InitTracer it is a no-op tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
