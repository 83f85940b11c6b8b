package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Metric exporter kinds.
const (
	ExporterNone    = "none"
	ExporterConsole = "console"
	ExporterOTLP    = "otlp"
)

// Options selects the exporters. Empty endpoints disable the matching signal.
type Options struct {
	ServiceName    string
	Environment    string
	MetricExporter string
	MetricEndpoint string
	ExportInterval time.Duration
	TraceEndpoint  string
}

// Setup installs global meter and tracer providers according to opts. The
// returned shutdown flushes both and is safe to call when nothing was installed.
func Setup(ctx context.Context, opts Options) (shutdown func(context.Context) error, err error) {
	var shutdowns []func(context.Context) error
	shutdown = func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdowns {
			errs = append(errs, fn(ctx))
		}
		return errors.Join(errs...)
	}

	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(opts.ServiceName),
			attribute.String("environment", opts.Environment),
		),
	)
	if err != nil {
		return shutdown, fmt.Errorf("telemetry resource: %w", err)
	}

	exporter, err := metricExporter(ctx, opts)
	if err != nil {
		return shutdown, err
	}
	if exporter != nil {
		interval := opts.ExportInterval
		if interval <= 0 {
			interval = 30 * time.Second
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
		)
		otel.SetMeterProvider(mp)
		shutdowns = append(shutdowns, mp.Shutdown)
		log.WithField("exporter", opts.MetricExporter).Info("Metrics export enabled")
	}

	if opts.TraceEndpoint != "" {
		traceExporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(opts.TraceEndpoint))
		if err != nil {
			return shutdown, fmt.Errorf("trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.TraceContext{})
		shutdowns = append(shutdowns, tp.Shutdown)
		log.WithField("endpoint", opts.TraceEndpoint).Info("Trace export enabled")
	}

	return shutdown, nil
}

func metricExporter(ctx context.Context, opts Options) (sdkmetric.Exporter, error) {
	switch opts.MetricExporter {
	case "", ExporterNone:
		return nil, nil
	case ExporterConsole:
		exp, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("console metric exporter: %w", err)
		}
		return exp, nil
	case ExporterOTLP:
		if opts.MetricEndpoint == "" {
			return nil, errors.New("otlp metric exporter needs an endpoint")
		}
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		exp, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(opts.MetricEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("otlp metric exporter: %w", err)
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("unknown metric exporter %q", opts.MetricExporter)
	}
}
