package domain

// EventName identifies the analytics event reported for a submission.
type EventName string

const (
	EventPurchase EventName = "Purchase"
	EventLead     EventName = "Lead"
)

// leadEventIDPrefix keeps Lead identifiers distinct in form from Purchase
// identifiers. Leads have no server-side twin, so exact-match dedup does not
// apply to them.
const leadEventIDPrefix = "lead_"

// ConversionEvent is the analytics report for one order. For buys the
// EventID is the orderId verbatim: a server-to-server twin reports the same
// order under the same identifier, and the analytics platform merges the two
// into a single counted conversion only on an exact eventID+name match.
type ConversionEvent struct {
	EventID   string    `json:"event_id"`
	Name      EventName `json:"name"`
	Value     int64     `json:"value"`
	Currency  string    `json:"currency"`
	ContentID string    `json:"content_id"`
}

// NewConversionEvent derives the event for a submission. Buy orders yield a
// Purchase valued at the grand total; inquiries yield a Lead with a prefixed
// variant of the orderId.
func NewConversionEvent(order OrderSubmission) ConversionEvent {
	if order.IsBuy() {
		return ConversionEvent{
			EventID:   order.OrderID,
			Name:      EventPurchase,
			Value:     order.GrandTotal,
			Currency:  Currency,
			ContentID: order.ProductSKU,
		}
	}
	return ConversionEvent{
		EventID:   leadEventIDPrefix + order.OrderID,
		Name:      EventLead,
		Value:     0,
		Currency:  Currency,
		ContentID: order.ProductSKU,
	}
}
