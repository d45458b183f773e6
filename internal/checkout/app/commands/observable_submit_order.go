package commands

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/myseetara/checkout/internal/checkout/metrics"
	"github.com/myseetara/checkout/internal/telemetry"
)

type ObservableCommandHandler struct {
	handler CommandHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCommandHandler(handler CommandHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableCommandHandler {
	return &ObservableCommandHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableCommandHandler) Handle(ctx context.Context, cmd SubmitOrderCommand) (*SubmissionResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "SubmitOrderCommand.Handle")
	defer span.End()

	var success bool
	defer func() {
		o.metrics.RecordOrderSubmitted(ctx, string(cmd.OrderType), success)
	}()

	o.logger.InfoContext(ctx, "submitting order",
		"phone", cmd.Phone,
		"product_sku", cmd.ProductSKU,
		"order_type", cmd.OrderType,
	)

	result, err := o.handler.Handle(ctx, cmd)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.InfoContext(ctx, "submission rejected",
			"error", err,
			"phone", cmd.Phone,
		)
		return nil, err
	}

	for _, stage := range result.Stages {
		o.metrics.RecordStageDuration(ctx, string(stage.Stage), stage.Duration.Seconds())
	}

	// Provider failures never surface to the customer; this log line is
	// the only trace of them.
	for _, outcome := range result.Notifications {
		if !outcome.Success {
			o.logger.WarnContext(ctx, "provider call failed",
				"order_id", result.Order.OrderID,
				"channel", outcome.Channel,
				"provider_message", outcome.ProviderMessage,
			)
		}
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", result.Order.OrderID),
		attribute.String("order.type", string(result.Order.OrderType)),
		attribute.Int64("order.grand_total", result.Order.GrandTotal),
		attribute.String("conversion.outcome", string(result.Conversion)),
		attribute.String("redirect.platform", string(result.Handoff.Plan.Platform)),
	)

	o.logger.InfoContext(ctx, "order submitted",
		"order_id", result.Order.OrderID,
		"order_type", result.Order.OrderType,
		"conversion", result.Conversion,
		"platform", result.Handoff.Plan.Platform,
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return result, nil
}
