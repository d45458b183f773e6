package domain

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// OrderType distinguishes a committed cash-on-delivery purchase from a
// call-me-back inquiry.
type OrderType string

const (
	OrderTypeBuy     OrderType = "buy"
	OrderTypeInquiry OrderType = "inquiry"
)

// DeliveryZone selects the flat delivery charge for a buy order.
type DeliveryZone string

const (
	ZoneInside  DeliveryZone = "inside"
	ZoneOutside DeliveryZone = "outside"
)

// Currency is the only currency the landing pages trade in.
const Currency = "NPR"

var (
	// ErrInvalidPhone is returned when the phone does not match the
	// regional 10-digit mobile pattern.
	ErrInvalidPhone = errors.New("phone must be a 10-digit mobile number starting with 97 or 98")
	// ErrMissingName is returned when the customer name is blank.
	ErrMissingName = errors.New("customer_name is required")
	// ErrMissingProduct is returned when no product SKU was supplied.
	ErrMissingProduct = errors.New("product_sku is required")
	// ErrMissingDeliveryZone is returned when a buy order carries no zone.
	ErrMissingDeliveryZone = errors.New("delivery_zone is required for buy orders")
	// ErrUnknownDeliveryZone is returned for zones outside the charge table.
	ErrUnknownDeliveryZone = errors.New("delivery_zone must be inside or outside")
	// ErrInvalidPrice is returned when the item price is not positive.
	ErrInvalidPrice = errors.New("item_price must be positive")
	// ErrUnknownOrderType is returned for order types other than buy/inquiry.
	ErrUnknownOrderType = errors.New("order_type must be buy or inquiry")
)

// 10 digits total: two-digit mobile prefix plus eight subscriber digits.
var phonePattern = regexp.MustCompile(`^(97|98)[0-9]{8}$`)

// deliveryCharges is the fixed zone lookup. There is no dynamic pricing.
var deliveryCharges = map[DeliveryZone]int64{
	ZoneInside:  100,
	ZoneOutside: 150,
}

// ValidPhone reports whether phone matches the regional mobile pattern.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// DeliveryCharge returns the flat charge for a zone.
func DeliveryCharge(zone DeliveryZone) (int64, error) {
	charge, ok := deliveryCharges[zone]
	if !ok {
		return 0, ErrUnknownDeliveryZone
	}
	return charge, nil
}

// NewOrderID derives the stable cross-system identifier for one submission
// attempt. The exact string is reused as the ledger cross-reference tag and
// the conversion eventID, so it must never be regenerated mid-flow.
func NewOrderID(namespace, phone string, at time.Time) string {
	return namespace + "_" + phone + "_" + strconv.FormatInt(at.UnixMilli(), 10)
}

// OrderSubmission is the immutable record produced by a validated submit.
type OrderSubmission struct {
	OrderID        string       `json:"order_id"`
	CustomerName   string       `json:"customer_name"`
	Phone          string       `json:"phone"`
	Address        string       `json:"address,omitempty"`
	City           string       `json:"city,omitempty"`
	ProductSKU     string       `json:"product_sku"`
	ColorVariant   string       `json:"color_variant"`
	OrderType      OrderType    `json:"order_type"`
	DeliveryZone   DeliveryZone `json:"delivery_zone,omitempty"`
	DeliveryCharge int64        `json:"delivery_charge"`
	ItemPrice      int64        `json:"item_price"`
	GrandTotal     int64        `json:"grand_total"`
	CreatedAt      time.Time    `json:"created_at"`
}

// Validate ensures the submission adheres to business constraints.
func (o OrderSubmission) Validate() error {
	if strings.TrimSpace(o.CustomerName) == "" {
		return ErrMissingName
	}
	if !ValidPhone(o.Phone) {
		return ErrInvalidPhone
	}
	if strings.TrimSpace(o.ProductSKU) == "" {
		return ErrMissingProduct
	}

	switch o.OrderType {
	case OrderTypeBuy:
		if o.ItemPrice <= 0 {
			return ErrInvalidPrice
		}
		if o.DeliveryZone == "" {
			return ErrMissingDeliveryZone
		}
		if _, err := DeliveryCharge(o.DeliveryZone); err != nil {
			return err
		}
	case OrderTypeInquiry:
		// Inquiries carry no delivery fields and owe nothing yet.
	default:
		return ErrUnknownOrderType
	}

	return nil
}

// IsBuy reports whether the submission is a committed purchase.
func (o OrderSubmission) IsBuy() bool {
	return o.OrderType == OrderTypeBuy
}

// Attribution carries the browser and click identifiers forwarded to the
// ledger so ad spend can be tied back to recorded orders.
type Attribution struct {
	BrowserID string `json:"browser_id,omitempty"`
	ClickID   string `json:"click_id,omitempty"`
}

// NotificationChannel names one outbound side-effect target.
type NotificationChannel string

const (
	ChannelCustomerSMS NotificationChannel = "customerSms"
	ChannelSalesSMS    NotificationChannel = "salesSms"
	ChannelLedger      NotificationChannel = "ledger"
)

// NotificationOutcome records how one provider call went. It exists for
// logging only and is never persisted or shown to the customer.
type NotificationOutcome struct {
	Channel         NotificationChannel
	Success         bool
	ProviderMessage string
}
