package markers

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/myseetara/checkout/internal/checkout/ports"
	"github.com/myseetara/checkout/internal/database"
	"github.com/myseetara/checkout/internal/telemetry"
)

// ObservableStore decorates a MarkerStore with spans and store metrics.
type ObservableStore struct {
	store   ports.MarkerStore
	metrics *database.Metrics
}

func NewObservableStore(store ports.MarkerStore, metrics *database.Metrics) *ObservableStore {
	return &ObservableStore{
		store:   store,
		metrics: metrics,
	}
}

func (s *ObservableStore) CheckAndSet(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "MarkerStore.CheckAndSet")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("marker.key", key),
		attribute.String("operation", "check_and_set"),
	)

	start := time.Now()
	claimed, err := s.store.CheckAndSet(ctx, key, ttl)
	duration := time.Since(start).Seconds()

	s.metrics.RecordQuery(ctx, "check_and_set_marker", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return false, err
	}

	telemetry.AddSpanAttributes(span, attribute.Bool("marker.claimed", claimed))
	telemetry.SetSpanSuccess(span)
	return claimed, nil
}
