package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the counters a pipeline run updates. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	discovered metric.Int64Counter
	applied    metric.Int64Counter
	skipped    metric.Int64Counter
	failed     metric.Int64Counter
}

// NewMetrics registers the pipeline counters on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	discovered, err := meter.Int64Counter("pipeline.resources.discovered",
		metric.WithDescription("Resources found by the change detector."))
	if err != nil {
		return nil, err
	}
	applied, err := meter.Int64Counter("pipeline.policies.applied",
		metric.WithDescription("Restriction policies written."))
	if err != nil {
		return nil, err
	}
	skipped, err := meter.Int64Counter("pipeline.resources.skipped",
		metric.WithDescription("Resources skipped because no owner or team was resolved."))
	if err != nil {
		return nil, err
	}
	failed, err := meter.Int64Counter("pipeline.resources.failed",
		metric.WithDescription("Resources abandoned after a processing error."))
	if err != nil {
		return nil, err
	}
	return &Metrics{
		discovered: discovered,
		applied:    applied,
		skipped:    skipped,
		failed:     failed,
	}, nil
}

// AddDiscovered records n resources found for kind.
func (m *Metrics) AddDiscovered(ctx context.Context, kind string, n int64) {
	if m == nil {
		return
	}
	m.discovered.Add(ctx, n, metric.WithAttributes(attribute.String("kind", kind)))
}

// AddApplied records one policy written for kind.
func (m *Metrics) AddApplied(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.applied.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// AddSkipped records one resource skipped for kind.
func (m *Metrics) AddSkipped(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.skipped.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// AddFailed records one resource abandoned for kind.
func (m *Metrics) AddFailed(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
