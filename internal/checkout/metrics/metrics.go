package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	ordersSubmittedTotal  metric.Int64Counter
	stageDuration         metric.Float64Histogram
	conversionEventsTotal metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.ordersSubmittedTotal, err = meter.Int64Counter(
		"orders_submitted_total",
		metric.WithDescription("Total number of order submissions"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create orders_submitted_total counter: %w", err)
	}

	m.stageDuration, err = meter.Float64Histogram(
		"checkout_stage_duration_seconds",
		metric.WithDescription("Time each pipeline stage was held, dwell included"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create checkout_stage_duration histogram: %w", err)
	}

	m.conversionEventsTotal, err = meter.Int64Counter(
		"conversion_events_total",
		metric.WithDescription("Conversion emission outcomes, suppressed duplicates included"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create conversion_events_total counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordOrderSubmitted(ctx context.Context, orderType string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.ordersSubmittedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
		attribute.String("order_type", orderType),
	))
}

func (m *Metrics) RecordStageDuration(ctx context.Context, stage string, durationSeconds float64) {
	m.stageDuration.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("stage", stage),
	))
}

func (m *Metrics) RecordConversion(ctx context.Context, name, outcome string) {
	m.conversionEventsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("name", name),
		attribute.String("outcome", outcome),
	))
}
