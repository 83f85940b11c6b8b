// Package telemetry owns the OpenTelemetry instruments of the simulation service.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/xtding233/wishmachine"

// Result labels for a simulation request.
const (
	ResultOK       = "ok"
	ResultInvalid  = "invalid"
	ResultTimeout  = "timeout"
	ResultInternal = "internal"
)

// Recorder records simulation metrics. Without an SDK installed the global
// provider is a no-op.
type Recorder struct {
	simulations metric.Int64Counter
	outcome     metric.Float64Histogram
	duration    metric.Float64Histogram
}

// NewRecorder creates the instruments on mp, or on the global provider when mp is nil.
func NewRecorder(mp metric.MeterProvider) (*Recorder, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)

	simulations, err := meter.Int64Counter("wishmachine.simulations",
		metric.WithDescription("Simulation requests by profile and result"))
	if err != nil {
		return nil, fmt.Errorf("failed to create simulations counter: %w", err)
	}
	outcome, err := meter.Float64Histogram("wishmachine.outcome_percent",
		metric.WithDescription("Outcome percent handed to wishers"),
		metric.WithUnit("%"),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90))
	if err != nil {
		return nil, fmt.Errorf("failed to create outcome histogram: %w", err)
	}
	duration, err := meter.Float64Histogram("wishmachine.run_duration",
		metric.WithDescription("Wall-clock time of one simulation run"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	return &Recorder{simulations: simulations, outcome: outcome, duration: duration}, nil
}

// RecordRun records one request. outcome is only observed for ResultOK.
func (r *Recorder) RecordRun(ctx context.Context, profile, result string, outcome float64, elapsed time.Duration) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("profile", profile),
		attribute.String("result", result),
	)
	r.simulations.Add(ctx, 1, attrs)
	r.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
	if result == ResultOK {
		r.outcome.Record(ctx, outcome, metric.WithAttributes(attribute.String("profile", profile)))
	}
}
