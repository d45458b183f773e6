// Package conversion emits the per-order analytics event, at most once per
// browser session.
package conversion

import (
	"context"
	"log/slog"
	"time"

	"github.com/myseetara/checkout/internal/checkout/domain"
	"github.com/myseetara/checkout/internal/checkout/metrics"
	"github.com/myseetara/checkout/internal/checkout/ports"
)

// Outcome describes what happened to a conversion attempt.
type Outcome string

const (
	OutcomeEmitted    Outcome = "emitted"
	OutcomeSuppressed Outcome = "suppressed"
	OutcomeFailed     Outcome = "failed"
)

// Emitter guards the conversion sink with a session-scoped idempotency
// marker. The marker is claimed atomically before emission, so a success
// view re-rendering (back/forward navigation, refresh) can never fire the
// event twice for the same order.
type Emitter struct {
	store   ports.MarkerStore
	sink    ports.ConversionSink
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewEmitter wires an emitter. ttl bounds how long a marker models one
// browser session.
func NewEmitter(store ports.MarkerStore, sink ports.ConversionSink, ttl time.Duration, logger *slog.Logger, metrics *metrics.Metrics) *Emitter {
	return &Emitter{
		store:   store,
		sink:    sink,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

// Emit reports the order's event unless the (session, order) marker was
// already claimed. It never returns an error: a sink failure is logged and
// counted, because nothing downstream may block on analytics. When the
// marker store itself fails we skip emission: losing one report is better
// than risking double-counted revenue.
func (e *Emitter) Emit(ctx context.Context, sessionID string, order domain.OrderSubmission) (Outcome, domain.ConversionEvent) {
	event := domain.NewConversionEvent(order)

	claimed, err := e.store.CheckAndSet(ctx, sessionID+":"+order.OrderID, e.ttl)
	if err != nil {
		e.logger.WarnContext(ctx, "marker store unavailable, skipping conversion",
			"order_id", order.OrderID,
			"error", err,
		)
		e.metrics.RecordConversion(ctx, string(event.Name), string(OutcomeFailed))
		return OutcomeFailed, event
	}

	if !claimed {
		e.logger.DebugContext(ctx, "duplicate conversion suppressed",
			"order_id", order.OrderID,
			"event_id", event.EventID,
		)
		e.metrics.RecordConversion(ctx, string(event.Name), string(OutcomeSuppressed))
		return OutcomeSuppressed, event
	}

	if err := e.sink.Emit(ctx, event); err != nil {
		e.logger.WarnContext(ctx, "conversion sink failed",
			"order_id", order.OrderID,
			"event_id", event.EventID,
			"error", err,
		)
		e.metrics.RecordConversion(ctx, string(event.Name), string(OutcomeFailed))
		return OutcomeFailed, event
	}

	e.metrics.RecordConversion(ctx, string(event.Name), string(OutcomeEmitted))
	return OutcomeEmitted, event
}
