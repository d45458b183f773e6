// Package sms sends order notifications through the HTTP SMS gateway.
package sms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/myseetara/checkout/internal/checkout/domain"
)

// Config carries gateway credentials and recipients.
type Config struct {
	GatewayURL   string
	AuthToken    string
	CountryCode  string
	SalesNumbers []string
	Timeout      time.Duration
}

// Client posts form-encoded messages to the SMS gateway.
type Client struct {
	httpClient   *http.Client
	gatewayURL   string
	authToken    string
	countryCode  string
	salesNumbers []string
}

// NewClient constructs a gateway client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		gatewayURL:   cfg.GatewayURL,
		authToken:    cfg.AuthToken,
		countryCode:  cfg.CountryCode,
		salesNumbers: cfg.SalesNumbers,
	}
}

// SendCustomerConfirmation sends the localized order confirmation to the
// buyer's own number.
func (c *Client) SendCustomerConfirmation(ctx context.Context, order domain.OrderSubmission) error {
	return c.send(ctx, order.Phone, customerMessage(order))
}

// SendSalesAlert fans the internal alert out to every configured sales
// number. Each number is attempted once; failures are joined, not retried.
func (c *Client) SendSalesAlert(ctx context.Context, order domain.OrderSubmission) error {
	var errs []error
	for _, number := range c.salesNumbers {
		if err := c.send(ctx, number, salesMessage(order)); err != nil {
			errs = append(errs, fmt.Errorf("alert %s: %w", number, err))
		}
	}
	return errors.Join(errs...)
}

func (c *Client) send(ctx context.Context, to, text string) error {
	form := url.Values{
		"authToken": {c.authToken},
		"to":        {c.normalizeRecipient(to)},
		"text":      {text},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}

// normalizeRecipient strips the country-code prefix: the gateway expects
// local 10-digit numbers.
func (c *Client) normalizeRecipient(number string) string {
	number = strings.TrimSpace(number)
	number = strings.TrimPrefix(number, "+"+c.countryCode)
	number = strings.TrimPrefix(number, c.countryCode)
	return number
}

func customerMessage(order domain.OrderSubmission) string {
	if !order.IsBuy() {
		return fmt.Sprintf(
			"Namaste %s! We received your inquiry for %s. Our team will call you at %s shortly.",
			order.CustomerName, order.ProductSKU, order.Phone,
		)
	}
	return fmt.Sprintf(
		"Namaste %s! Your order for %s (%s) totaling Rs. %d has been received. We will call to confirm delivery. Thank you for shopping with Seetara.",
		order.CustomerName, order.ProductSKU, order.ColorVariant, order.GrandTotal,
	)
}

func salesMessage(order domain.OrderSubmission) string {
	return fmt.Sprintf(
		"New %s: %s | %s | %s",
		order.OrderType, order.CustomerName, order.Phone, order.ProductSKU,
	)
}
