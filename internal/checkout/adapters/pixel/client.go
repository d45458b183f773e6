// Package pixel reports conversion events to the analytics platform.
package pixel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/myseetara/checkout/internal/checkout/domain"
)

// Client posts events to the conversion reporting endpoint. The eventID in
// the options object is the deduplication handle: the platform merges this
// report with the server-to-server twin only when eventID and event name
// match inside its window.
type Client struct {
	httpClient  *http.Client
	endpointURL string
}

// NewClient constructs a conversion reporting client.
func NewClient(endpointURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpointURL: endpointURL,
	}
}

type eventPayload struct {
	EventName string       `json:"event_name"`
	Params    eventParams  `json:"params"`
	Options   eventOptions `json:"options"`
}

type eventParams struct {
	Value      int64    `json:"value"`
	Currency   string   `json:"currency"`
	ContentIDs []string `json:"content_ids"`
}

type eventOptions struct {
	EventID string `json:"eventID"`
}

// Emit reports one event.
func (c *Client) Emit(ctx context.Context, event domain.ConversionEvent) error {
	payload := eventPayload{
		EventName: string(event.Name),
		Params: eventParams{
			Value:      event.Value,
			Currency:   event.Currency,
			ContentIDs: []string{event.ContentID},
		},
		Options: eventOptions{EventID: event.EventID},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode conversion event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build conversion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("report conversion event: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("conversion sink returned %d", resp.StatusCode)
	}

	return nil
}
