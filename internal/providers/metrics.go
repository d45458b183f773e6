package providers

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics covers every outbound provider call: SMS gateway, ledger webhook,
// conversion sink. The failure counter is the operational signal for gateway
// outages that the customer-facing flow deliberately hides.
type Metrics struct {
	requestLatency metric.Float64Histogram
	failuresTotal  metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.requestLatency, err = meter.Float64Histogram(
		"provider_request_duration_seconds",
		metric.WithDescription("Outbound provider call latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create provider_request_duration histogram: %w", err)
	}

	m.failuresTotal, err = meter.Int64Counter(
		"provider_failures_total",
		metric.WithDescription("Total failed outbound provider calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create provider_failures_total counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordCall(ctx context.Context, channel string, durationSeconds float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.requestLatency.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("status", status),
	))
	if !success {
		m.failuresTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("channel", channel),
		))
	}
}
