// Package sheets posts order records to the spreadsheet-backed logging
// webhook.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/myseetara/checkout/internal/checkout/ports"
)

// Client writes best-effort order records. The webhook's response body is
// never read: the transport is fire-and-forget by contract.
type Client struct {
	httpClient *http.Client
	webhookURL string
}

// NewClient constructs a ledger webhook client.
func NewClient(webhookURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		webhookURL: webhookURL,
	}
}

// Record posts the entry as JSON. A non-success status is still an error so
// the caller can count it, but the body is discarded unread either way.
func (c *Client) Record(ctx context.Context, entry ports.LedgerEntry) error {
	body, err := json.Marshal(recordPayload(entry))
	if err != nil {
		return fmt.Errorf("encode ledger entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build ledger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post ledger entry: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("ledger webhook returned %d", resp.StatusCode)
	}

	return nil
}

// recordPayload flattens the entry so every order lands as one spreadsheet
// row keyed by the order id.
func recordPayload(entry ports.LedgerEntry) map[string]any {
	order := entry.Order
	return map[string]any{
		"order_id":        order.OrderID,
		"customer_name":   order.CustomerName,
		"phone":           order.Phone,
		"address":         order.Address,
		"city":            order.City,
		"product_sku":     order.ProductSKU,
		"color_variant":   order.ColorVariant,
		"order_type":      order.OrderType,
		"delivery_zone":   order.DeliveryZone,
		"delivery_charge": order.DeliveryCharge,
		"item_price":      order.ItemPrice,
		"grand_total":     order.GrandTotal,
		"created_at":      order.CreatedAt.UTC().Format(time.RFC3339),
		"browser_id":      entry.Attribution.BrowserID,
		"click_id":        entry.Attribution.ClickID,
	}
}
