// Package adapters carries observability decorators shared by the outbound
// provider clients.
package adapters

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/myseetara/checkout/internal/checkout/domain"
	"github.com/myseetara/checkout/internal/checkout/ports"
	"github.com/myseetara/checkout/internal/providers"
	"github.com/myseetara/checkout/internal/telemetry"
)

// ObservableNotifier decorates a Notifier with spans and provider metrics.
type ObservableNotifier struct {
	notifier ports.Notifier
	metrics  *providers.Metrics
}

func NewObservableNotifier(notifier ports.Notifier, metrics *providers.Metrics) *ObservableNotifier {
	return &ObservableNotifier{
		notifier: notifier,
		metrics:  metrics,
	}
}

func (n *ObservableNotifier) SendCustomerConfirmation(ctx context.Context, order domain.OrderSubmission) error {
	ctx, span := telemetry.StartSpan(ctx, "Notifier.SendCustomerConfirmation")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.OrderID),
		attribute.String("channel", string(domain.ChannelCustomerSMS)),
	)

	start := time.Now()
	err := n.notifier.SendCustomerConfirmation(ctx, order)
	duration := time.Since(start).Seconds()

	n.metrics.RecordCall(ctx, string(domain.ChannelCustomerSMS), duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (n *ObservableNotifier) SendSalesAlert(ctx context.Context, order domain.OrderSubmission) error {
	ctx, span := telemetry.StartSpan(ctx, "Notifier.SendSalesAlert")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.OrderID),
		attribute.String("channel", string(domain.ChannelSalesSMS)),
	)

	start := time.Now()
	err := n.notifier.SendSalesAlert(ctx, order)
	duration := time.Since(start).Seconds()

	n.metrics.RecordCall(ctx, string(domain.ChannelSalesSMS), duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

// ObservableLedger decorates a Ledger with spans and provider metrics.
type ObservableLedger struct {
	ledger  ports.Ledger
	metrics *providers.Metrics
}

func NewObservableLedger(ledger ports.Ledger, metrics *providers.Metrics) *ObservableLedger {
	return &ObservableLedger{
		ledger:  ledger,
		metrics: metrics,
	}
}

func (l *ObservableLedger) Record(ctx context.Context, entry ports.LedgerEntry) error {
	ctx, span := telemetry.StartSpan(ctx, "Ledger.Record")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", entry.Order.OrderID),
		attribute.String("channel", string(domain.ChannelLedger)),
	)

	start := time.Now()
	err := l.ledger.Record(ctx, entry)
	duration := time.Since(start).Seconds()

	l.metrics.RecordCall(ctx, string(domain.ChannelLedger), duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

// ObservableConversionSink decorates a ConversionSink with spans and
// provider metrics.
type ObservableConversionSink struct {
	sink    ports.ConversionSink
	metrics *providers.Metrics
}

func NewObservableConversionSink(sink ports.ConversionSink, metrics *providers.Metrics) *ObservableConversionSink {
	return &ObservableConversionSink{
		sink:    sink,
		metrics: metrics,
	}
}

func (s *ObservableConversionSink) Emit(ctx context.Context, event domain.ConversionEvent) error {
	ctx, span := telemetry.StartSpan(ctx, "ConversionSink.Emit")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("event.id", event.EventID),
		attribute.String("event.name", string(event.Name)),
	)

	start := time.Now()
	err := s.sink.Emit(ctx, event)
	duration := time.Since(start).Seconds()

	s.metrics.RecordCall(ctx, "conversionSink", duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
