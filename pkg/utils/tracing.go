package utils

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InitTracer installs the global tracer provider. When tracing is disabled the
// provider is a no-op and shutdown does nothing.
func InitTracer(config TracingConfig, serviceName, logPath string) (trace.TracerProvider, func(context.Context) error, error) {
	if !config.Enabled {
		return noop.NewTracerProvider(), func(context.Context) error { return nil }, nil
	}

	// Spans go to their own rotated file next to the application log
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(&lumberjack.Logger{
		Filename:   logPath + "traces.log",
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	}))
	if err != nil {
		return nil, nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.SampleRatio))),
	)
	otel.SetTracerProvider(provider)

	return provider, provider.Shutdown, nil
}
