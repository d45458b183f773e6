package ports

import (
	"context"

	"github.com/myseetara/checkout/internal/checkout/domain"
)

// LedgerEntry is the best-effort order record posted to the external
// spreadsheet-backed log, tagged with the same orderId the conversion
// event carries.
type LedgerEntry struct {
	Order       domain.OrderSubmission `json:"order"`
	Attribution domain.Attribution     `json:"attribution"`
}

// Ledger posts order records to the external logging sink. The write is
// fire-and-forget: implementations do not read the response body.
type Ledger interface {
	Record(ctx context.Context, entry LedgerEntry) error
}
