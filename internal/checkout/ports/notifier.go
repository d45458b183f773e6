package ports

import (
	"context"

	"github.com/myseetara/checkout/internal/checkout/domain"
)

// Notifier sends the two per-order SMS messages. Implementations return the
// provider error as-is; the pipeline decides that such failures never block
// the customer.
type Notifier interface {
	SendCustomerConfirmation(ctx context.Context, order domain.OrderSubmission) error
	SendSalesAlert(ctx context.Context, order domain.OrderSubmission) error
}
