// Package telemetry wraps editor and stack operations with OpenTelemetry
// spans and metrics. It is a much smaller relative of an RPC interceptor:
// instead of wrapping unary/stream calls, it wraps the handful of
// operations an Editor or StackedEditor exposes (append_left, append_right,
// overwrite, commit, rollback).
package telemetry

import (
	"time"

	"github.com/gostdlib/base/context"
	"github.com/gostdlib/base/telemetry/otel/trace/span"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Config configures the telemetry wrapper. Both flags default to false:
// a zero-value Config is telemetry disabled, not enabled, so that using an
// Editor without ever touching this package costs nothing.
type Config struct {
	// EnableTracing starts a span per wrapped operation.
	EnableTracing bool
	// EnableMetrics records duration/count instruments per wrapped
	// operation.
	EnableMetrics bool
	// MeterProvider supplies the meter; if nil, context.Meter(ctx) is
	// used.
	MeterProvider metric.MeterProvider
}

// Recorder emits spans and metrics around editor/stack operations.
type Recorder struct {
	cfg Config

	duration metric.Float64Histogram
	count    metric.Int64Counter
}

// New builds a Recorder. If cfg.EnableMetrics is set, it eagerly creates
// the duration histogram and operation counter.
func New(ctx context.Context, cfg Config) (*Recorder, error) {
	r := &Recorder{cfg: cfg}
	if !cfg.EnableMetrics {
		return r, nil
	}

	var meter metric.Meter
	if cfg.MeterProvider != nil {
		meter = cfg.MeterProvider.Meter("sourcestitch")
	} else {
		meter = context.Meter(ctx)
	}

	var err error
	r.duration, err = meter.Float64Histogram(
		"stitch.operation.duration",
		metric.WithDescription("Duration of editor/stack operations in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}
	r.count, err = meter.Int64Counter(
		"stitch.operation.count",
		metric.WithDescription("Number of editor/stack operations, by outcome"),
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Wrap runs op inside a span named name (if tracing is enabled) and
// records a duration/count metric for it (if metrics are enabled),
// attaching layerID as a span attribute when non-empty. Metrics carry
// only the operation name and its ok/error status.
func (r *Recorder) Wrap(ctx context.Context, name, layerID string, op func(ctx context.Context) error) error {
	start := time.Now()

	if r.cfg.EnableTracing {
		var sp span.Span
		ctx, sp = span.New(ctx,
			span.WithName(name),
			span.WithSpanStartOption(trace.WithSpanKind(trace.SpanKindInternal)),
		)
		defer sp.End()
		attrs := []attribute.KeyValue{attribute.String("stitch.op", name)}
		if layerID != "" {
			attrs = append(attrs, attribute.String("stitch.layer_id", layerID))
		}
		sp.Span.SetAttributes(attrs...)
	}

	err := op(ctx)

	if r.cfg.EnableMetrics && r.duration != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		attrs := metric.WithAttributes(
			attribute.String("stitch_op", name),
			attribute.String("stitch_status", status),
		)
		r.duration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
		r.count.Add(ctx, 1, attrs)
	}

	return err
}
