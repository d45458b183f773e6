package ports

import (
	"context"

	"github.com/myseetara/checkout/internal/checkout/domain"
)

// ConversionSink reports an analytics event. The eventID inside the event is
// what lets the platform merge this report with its server-to-server twin.
type ConversionSink interface {
	Emit(ctx context.Context, event domain.ConversionEvent) error
}
