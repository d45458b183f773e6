package app

import (
	"context"
	"log/slog"

	"github.com/myseetara/checkout/internal/checkout/app/commands"
	"github.com/myseetara/checkout/internal/checkout/conversion"
	"github.com/myseetara/checkout/internal/checkout/domain"
	"github.com/myseetara/checkout/internal/checkout/metrics"
	"github.com/myseetara/checkout/internal/checkout/ports"
	"github.com/myseetara/checkout/internal/checkout/progress"
	"github.com/myseetara/checkout/internal/redirect"
)

// Service bundles the checkout use cases exposed over the API.
type Service struct {
	submitOrderHandler commands.CommandHandler
}

// Config carries the pipeline knobs that are not dependencies.
type Config struct {
	Namespace string
	Redirect  redirect.Config
}

// NewService wires required dependencies.
func NewService(
	notifier ports.Notifier,
	ledger ports.Ledger,
	emitter *conversion.Emitter,
	classifier redirect.Classifier,
	runner *progress.Runner,
	cfg Config,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) *Service {
	// The server cannot observe the client page, so the executor assumes
	// the page stays foreground and records the launch sequence for the
	// landing script instead of waiting out the fallback delays itself.
	executor := func(launcher redirect.Launcher) *redirect.Executor {
		return redirect.NewExecutor(launcher, redirect.StaticProbe(true), logger).WithSleep(redirect.NoWait)
	}

	coreHandler := commands.NewSubmitOrderCommandHandler(
		notifier,
		ledger,
		emitter,
		classifier,
		executor,
		runner,
		cfg.Redirect,
		cfg.Namespace,
	)
	observableHandler := commands.NewObservableCommandHandler(coreHandler, logger, metrics)

	return &Service{
		submitOrderHandler: observableHandler,
	}
}

// SubmitOrderInput captures the payload for one submission.
type SubmitOrderInput struct {
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	ProductSKU   string `json:"product_sku"`
	ColorVariant string `json:"color_variant"`
	OrderType    string `json:"order_type"`
	DeliveryZone string `json:"delivery_zone"`
	ItemPrice    int64  `json:"item_price"`
	SessionID    string `json:"session_id"`

	// Filled from the request, not the JSON body.
	UserAgent   string             `json:"-"`
	Attribution domain.Attribution `json:"-"`
}

// SubmitOrder orchestrates one submission end to end.
func (s *Service) SubmitOrder(ctx context.Context, input SubmitOrderInput) (*commands.SubmissionResult, error) {
	cmd := commands.SubmitOrderCommand{
		CustomerName: input.CustomerName,
		Phone:        input.Phone,
		Address:      input.Address,
		City:         input.City,
		ProductSKU:   input.ProductSKU,
		ColorVariant: input.ColorVariant,
		OrderType:    domain.OrderType(input.OrderType),
		DeliveryZone: domain.DeliveryZone(input.DeliveryZone),
		ItemPrice:    input.ItemPrice,
		SessionID:    input.SessionID,
		UserAgent:    input.UserAgent,
		Attribution:  input.Attribution,
	}
	return s.submitOrderHandler.Handle(ctx, cmd)
}
