package http

import (
	"github.com/myseetara/checkout/internal/checkout/app/commands"
	"github.com/myseetara/checkout/internal/checkout/domain"
	"github.com/myseetara/checkout/internal/checkout/progress"
)

// submitResponse is the wire shape for a completed submission. Durations
// cross the wire as milliseconds so the landing script can replay the stage
// pacing and the fallback delay without unit guessing.
type submitResponse struct {
	State      string        `json:"state"`
	Order      orderDTO      `json:"order"`
	Stages     []stageDTO    `json:"stages"`
	Conversion conversionDTO `json:"conversion"`
	Redirect   redirectDTO   `json:"redirect"`
}

type orderDTO struct {
	OrderID        string `json:"order_id"`
	OrderType      string `json:"order_type"`
	ProductSKU     string `json:"product_sku"`
	ColorVariant   string `json:"color_variant"`
	ItemPrice      int64  `json:"item_price"`
	DeliveryCharge int64  `json:"delivery_charge"`
	GrandTotal     int64  `json:"grand_total"`
	Currency       string `json:"currency"`
}

type stageDTO struct {
	Stage      string `json:"stage"`
	DurationMS int64  `json:"duration_ms"`
}

type conversionDTO struct {
	Outcome string `json:"outcome"`
	EventID string `json:"event_id"`
	Name    string `json:"name"`
}

type redirectDTO struct {
	Platform        string `json:"platform"`
	Message         string `json:"message"`
	PrimaryURI      string `json:"primary_uri"`
	FallbackURI     string `json:"fallback_uri,omitempty"`
	FallbackDelayMS int64  `json:"fallback_delay_ms"`
	ForegroundGated bool   `json:"foreground_gated"`
	FallbackFired   bool   `json:"fallback_fired"`
}

func newSubmitResponse(result *commands.SubmissionResult) submitResponse {
	stages := make([]stageDTO, 0, len(result.Stages))
	for _, stage := range result.Stages {
		stages = append(stages, stageDTO{
			Stage:      string(stage.Stage),
			DurationMS: stage.Duration.Milliseconds(),
		})
	}

	plan := result.Handoff.Plan
	return submitResponse{
		State: string(progress.StageDone),
		Order: orderDTO{
			OrderID:        result.Order.OrderID,
			OrderType:      string(result.Order.OrderType),
			ProductSKU:     result.Order.ProductSKU,
			ColorVariant:   result.Order.ColorVariant,
			ItemPrice:      result.Order.ItemPrice,
			DeliveryCharge: result.Order.DeliveryCharge,
			GrandTotal:     result.Order.GrandTotal,
			Currency:       domain.Currency,
		},
		Stages: stages,
		Conversion: conversionDTO{
			Outcome: string(result.Conversion),
			EventID: result.Event.EventID,
			Name:    string(result.Event.Name),
		},
		Redirect: redirectDTO{
			Platform:        string(plan.Platform),
			Message:         plan.Message,
			PrimaryURI:      plan.PrimaryURI,
			FallbackURI:     plan.FallbackURI,
			FallbackDelayMS: plan.FallbackDelay.Milliseconds(),
			ForegroundGated: plan.ForegroundGated,
			FallbackFired:   result.Handoff.FallbackFired,
		},
	}
}
