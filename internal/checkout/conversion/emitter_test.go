package conversion_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/myseetara/checkout/internal/checkout/conversion"
	"github.com/myseetara/checkout/internal/checkout/domain"
	"github.com/myseetara/checkout/internal/checkout/metrics"
	"github.com/myseetara/checkout/internal/markers/memory"
)

type mockSink struct {
	emitted []domain.ConversionEvent
	emitFn  func(ctx context.Context, event domain.ConversionEvent) error
}

func (m *mockSink) Emit(ctx context.Context, event domain.ConversionEvent) error {
	m.emitted = append(m.emitted, event)
	if m.emitFn != nil {
		return m.emitFn(ctx, event)
	}
	return nil
}

type mockStore struct {
	checkAndSetFn func(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

func (m *mockStore) CheckAndSet(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return m.checkAndSetFn(ctx, key, ttl)
}

func testMetrics(t *testing.T) *metrics.Metrics {
	t.Helper()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	m, err := metrics.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}
	return m
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buyOrder() domain.OrderSubmission {
	return domain.OrderSubmission{
		OrderID:    "seetara_9812345678_1712345678901",
		OrderType:  domain.OrderTypeBuy,
		ProductSKU: "watch-classic",
		GrandTotal: 1599,
	}
}

func TestEmit(t *testing.T) {
	t.Run("first emission fires a Purchase keyed by the order id", func(t *testing.T) {
		sink := &mockSink{}
		emitter := conversion.NewEmitter(memory.NewStore(), sink, time.Minute, testLogger(), testMetrics(t))

		outcome, event := emitter.Emit(context.Background(), "sess-1", buyOrder())

		if outcome != conversion.OutcomeEmitted {
			t.Fatalf("expected emitted, got %s", outcome)
		}
		if len(sink.emitted) != 1 {
			t.Fatalf("expected one sink call, got %d", len(sink.emitted))
		}
		if sink.emitted[0].EventID != "seetara_9812345678_1712345678901" {
			t.Errorf("expected event id to equal the order id, got %q", sink.emitted[0].EventID)
		}
		if event.Name != domain.EventPurchase {
			t.Errorf("expected Purchase, got %s", event.Name)
		}
	})

	t.Run("second emission in the same session is suppressed", func(t *testing.T) {
		sink := &mockSink{}
		emitter := conversion.NewEmitter(memory.NewStore(), sink, time.Minute, testLogger(), testMetrics(t))
		ctx := context.Background()

		if outcome, _ := emitter.Emit(ctx, "sess-1", buyOrder()); outcome != conversion.OutcomeEmitted {
			t.Fatalf("expected first emission, got %s", outcome)
		}
		outcome, _ := emitter.Emit(ctx, "sess-1", buyOrder())

		if outcome != conversion.OutcomeSuppressed {
			t.Fatalf("expected suppressed, got %s", outcome)
		}
		if len(sink.emitted) != 1 {
			t.Errorf("expected exactly one sink call, got %d", len(sink.emitted))
		}
	})

	t.Run("a different session emits independently", func(t *testing.T) {
		sink := &mockSink{}
		emitter := conversion.NewEmitter(memory.NewStore(), sink, time.Minute, testLogger(), testMetrics(t))
		ctx := context.Background()

		emitter.Emit(ctx, "sess-1", buyOrder())
		outcome, _ := emitter.Emit(ctx, "sess-2", buyOrder())

		if outcome != conversion.OutcomeEmitted {
			t.Fatalf("expected second session to emit, got %s", outcome)
		}
		if len(sink.emitted) != 2 {
			t.Errorf("expected two sink calls, got %d", len(sink.emitted))
		}
	})

	t.Run("inquiry emits a Lead with a distinct event id", func(t *testing.T) {
		sink := &mockSink{}
		emitter := conversion.NewEmitter(memory.NewStore(), sink, time.Minute, testLogger(), testMetrics(t))

		order := buyOrder()
		order.OrderType = domain.OrderTypeInquiry

		outcome, event := emitter.Emit(context.Background(), "sess-1", order)

		if outcome != conversion.OutcomeEmitted {
			t.Fatalf("expected emitted, got %s", outcome)
		}
		if event.Name != domain.EventLead {
			t.Errorf("expected Lead, got %s", event.Name)
		}
		if event.EventID == order.OrderID {
			t.Error("expected Lead event id to differ from the order id")
		}
	})

	t.Run("sink failure is absorbed and reported as failed", func(t *testing.T) {
		sink := &mockSink{
			emitFn: func(context.Context, domain.ConversionEvent) error {
				return errors.New("pixel unreachable")
			},
		}
		emitter := conversion.NewEmitter(memory.NewStore(), sink, time.Minute, testLogger(), testMetrics(t))

		outcome, _ := emitter.Emit(context.Background(), "sess-1", buyOrder())

		if outcome != conversion.OutcomeFailed {
			t.Errorf("expected failed, got %s", outcome)
		}
	})

	t.Run("marker store failure skips emission rather than risk a double count", func(t *testing.T) {
		sink := &mockSink{}
		store := &mockStore{
			checkAndSetFn: func(context.Context, string, time.Duration) (bool, error) {
				return false, errors.New("redis down")
			},
		}
		emitter := conversion.NewEmitter(store, sink, time.Minute, testLogger(), testMetrics(t))

		outcome, _ := emitter.Emit(context.Background(), "sess-1", buyOrder())

		if outcome != conversion.OutcomeFailed {
			t.Errorf("expected failed, got %s", outcome)
		}
		if len(sink.emitted) != 0 {
			t.Errorf("expected no sink call, got %d", len(sink.emitted))
		}
	})
}
