package redirect

import (
	"fmt"
	"net/url"
	"time"

	"github.com/myseetara/checkout/internal/checkout/domain"
)

// Config carries the messaging destination and fallback timing.
type Config struct {
	WhatsAppNumber string
	CountryCode    string
	// AndroidFallbackDelay is short: a silently-failed intent is assumed
	// quickly. The iOS delay is longer and additionally foreground-gated.
	AndroidFallbackDelay time.Duration
	IOSFallbackDelay     time.Duration
}

// Plan is the declarative handoff strategy for one order.
type Plan struct {
	Platform        Platform
	Message         string
	PrimaryURI      string
	FallbackURI     string
	FallbackDelay   time.Duration
	ForegroundGated bool
}

// BuildPlan resolves the deep-link chain for a platform. Desktop goes
// straight to the universal web link; Android tries an application intent
// first; iOS tries the custom URL scheme with a foreground-gated fallback.
func BuildPlan(order domain.OrderSubmission, platform Platform, cfg Config) Plan {
	message := handoffMessage(order)
	encoded := url.QueryEscape(message)
	full := cfg.CountryCode + cfg.WhatsAppNumber

	webURI := fmt.Sprintf("https://wa.me/%s?text=%s", full, encoded)

	switch platform {
	case PlatformAndroid:
		return Plan{
			Platform:      PlatformAndroid,
			Message:       message,
			PrimaryURI:    fmt.Sprintf("intent://send?phone=%s&text=%s#Intent;scheme=whatsapp;package=com.whatsapp;end", full, encoded),
			FallbackURI:   webURI,
			FallbackDelay: cfg.AndroidFallbackDelay,
		}
	case PlatformIOS:
		return Plan{
			Platform:        PlatformIOS,
			Message:         message,
			PrimaryURI:      fmt.Sprintf("whatsapp://send?phone=%s&text=%s", full, encoded),
			FallbackURI:     webURI,
			FallbackDelay:   cfg.IOSFallbackDelay,
			ForegroundGated: true,
		}
	default:
		return Plan{
			Platform:   PlatformDesktop,
			Message:    message,
			PrimaryURI: webURI,
		}
	}
}

func handoffMessage(order domain.OrderSubmission) string {
	if !order.IsBuy() {
		return fmt.Sprintf(
			"Namaste! I am %s (%s). I would like to know more about %s.",
			order.CustomerName, order.Phone, order.ProductSKU,
		)
	}
	return fmt.Sprintf(
		"Namaste! I am %s (%s). I just ordered %s (%s). Delivery to: %s, %s. Total: Rs. %d.",
		order.CustomerName, order.Phone, order.ProductSKU, order.ColorVariant,
		order.Address, order.City, order.GrandTotal,
	)
}
