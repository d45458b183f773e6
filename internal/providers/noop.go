package providers

import (
	"context"
	"log/slog"

	"github.com/myseetara/checkout/internal/checkout/domain"
	"github.com/myseetara/checkout/internal/checkout/ports"
)

// NoopNotifier logs SMS sends without calling the gateway. Useful for local
// dev before credentials are configured.
type NoopNotifier struct{}

// NewNoopNotifier returns a new no-op SMS dispatcher.
func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (n *NoopNotifier) SendCustomerConfirmation(_ context.Context, order domain.OrderSubmission) error {
	slog.Debug("sms::customer_confirmation", "order_id", order.OrderID, "to", order.Phone)
	return nil
}

func (n *NoopNotifier) SendSalesAlert(_ context.Context, order domain.OrderSubmission) error {
	slog.Debug("sms::sales_alert", "order_id", order.OrderID, "customer", order.CustomerName)
	return nil
}

// NoopLedger logs ledger writes without posting them.
type NoopLedger struct{}

// NewNoopLedger returns a new no-op ledger.
func NewNoopLedger() *NoopLedger {
	return &NoopLedger{}
}

func (n *NoopLedger) Record(_ context.Context, entry ports.LedgerEntry) error {
	slog.Debug("ledger::record", "order_id", entry.Order.OrderID)
	return nil
}

// NoopConversionSink logs conversion events without reporting them.
type NoopConversionSink struct{}

// NewNoopConversionSink returns a new no-op conversion sink.
func NewNoopConversionSink() *NoopConversionSink {
	return &NoopConversionSink{}
}

func (n *NoopConversionSink) Emit(_ context.Context, event domain.ConversionEvent) error {
	slog.Debug("conversion::emit", "event_id", event.EventID, "name", string(event.Name))
	return nil
}
