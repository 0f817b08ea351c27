// Package observability sets up OpenTelemetry tracing for the contacts service.
package observability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/contacts-page/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
)

// ServiceName is reported as service.name on every span.
const ServiceName = "contacts-service"

type TracingConfig struct {
	// Exporter is "none", "stdout" or "otlp". The OTLP exporter reads its endpoint from the
	// standard OTEL_EXPORTER_OTLP_* variables.
	Exporter     string
	SamplerRatio float64
	Version      string
}

// InitTracing installs a global tracer provider and returns its shutdown function. With exporter
// "none" nothing is installed and the returned function does nothing.
func InitTracing(ctx context.Context, log *logger.Logger, cfg TracingConfig) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	exporter, err := buildTraceExporter(ctx, cfg.Exporter)
	if err != nil {
		return noop, err
	}
	if exporter == nil {
		return noop, nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceNameKey.String(ServiceName),
		semconv.ServiceVersionKey.String(strings.TrimSpace(cfg.Version)),
	))
	if err != nil && log != nil {
		log.Warn("otel resource init failed (continuing)", "error", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(clampRatio(cfg.SamplerRatio)))),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	if log != nil {
		log.Info("otel tracing initialized", "exporter", cfg.Exporter, "ratio", clampRatio(cfg.SamplerRatio))
	}
	return tp.Shutdown, nil
}

func buildTraceExporter(ctx context.Context, exporter string) (sdktrace.SpanExporter, error) {
	switch strings.ToLower(strings.TrimSpace(exporter)) {
	case "", "none":
		return nil, nil
	case "stdout":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "otlp":
		return otlptracehttp.New(ctx)
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", exporter)
	}
}

func clampRatio(ratio float64) float64 {
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}
