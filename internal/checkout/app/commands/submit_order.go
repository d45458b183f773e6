package commands

import (
	"context"
	"strings"
	"time"

	"github.com/myseetara/checkout/internal/checkout/conversion"
	"github.com/myseetara/checkout/internal/checkout/domain"
	"github.com/myseetara/checkout/internal/checkout/ports"
	"github.com/myseetara/checkout/internal/checkout/progress"
	"github.com/myseetara/checkout/internal/redirect"
)

// SubmitOrderCommand captures one landing-page submission attempt.
type SubmitOrderCommand struct {
	CustomerName string
	Phone        string
	Address      string
	City         string
	ProductSKU   string
	ColorVariant string
	OrderType    domain.OrderType
	DeliveryZone domain.DeliveryZone
	ItemPrice    int64
	SessionID    string
	UserAgent    string
	Attribution  domain.Attribution
}

// Validate applies every precondition before any side effect may run. A
// failure here means the pipeline never starts.
func (c SubmitOrderCommand) Validate() error {
	if strings.TrimSpace(c.CustomerName) == "" {
		return domain.ErrMissingName
	}
	if !domain.ValidPhone(c.Phone) {
		return domain.ErrInvalidPhone
	}
	if strings.TrimSpace(c.ProductSKU) == "" {
		return domain.ErrMissingProduct
	}

	switch c.OrderType {
	case domain.OrderTypeBuy:
		if c.ItemPrice <= 0 {
			return domain.ErrInvalidPrice
		}
		if c.DeliveryZone == "" {
			return domain.ErrMissingDeliveryZone
		}
		if _, err := domain.DeliveryCharge(c.DeliveryZone); err != nil {
			return err
		}
	case domain.OrderTypeInquiry:
	default:
		return domain.ErrUnknownOrderType
	}

	return nil
}

// SubmissionResult is everything the success view needs: the immutable
// order, the stage timeline, the redirect handoff, and the conversion
// outcome.
type SubmissionResult struct {
	Order         domain.OrderSubmission
	Stages        []progress.StageResult
	Notifications []domain.NotificationOutcome
	Conversion    conversion.Outcome
	Event         domain.ConversionEvent
	Handoff       redirect.Handoff
}

// CommandHandler handles one submission end to end.
type CommandHandler interface {
	Handle(ctx context.Context, cmd SubmitOrderCommand) (*SubmissionResult, error)
}

// SubmitOrderCommandHandler runs the submission pipeline: verify, notify,
// log, then redirect, with the conversion event emitted on arrival at the
// success state. Provider failures are captured as outcomes and never stop
// the flow.
type SubmitOrderCommandHandler struct {
	notifier   ports.Notifier
	ledger     ports.Ledger
	emitter    *conversion.Emitter
	classifier redirect.Classifier
	executor   func(launcher redirect.Launcher) *redirect.Executor
	runner     *progress.Runner
	redirect   redirect.Config
	namespace  string
	now        func() time.Time
}

// NewSubmitOrderCommandHandler wires the pipeline dependencies.
func NewSubmitOrderCommandHandler(
	notifier ports.Notifier,
	ledger ports.Ledger,
	emitter *conversion.Emitter,
	classifier redirect.Classifier,
	executor func(launcher redirect.Launcher) *redirect.Executor,
	runner *progress.Runner,
	redirectCfg redirect.Config,
	namespace string,
) *SubmitOrderCommandHandler {
	return &SubmitOrderCommandHandler{
		notifier:   notifier,
		ledger:     ledger,
		emitter:    emitter,
		classifier: classifier,
		executor:   executor,
		runner:     runner,
		redirect:   redirectCfg,
		namespace:  namespace,
		now:        time.Now,
	}
}

// WithNow overrides the submission clock, for deterministic order ids in
// tests.
func (h *SubmitOrderCommandHandler) WithNow(now func() time.Time) *SubmitOrderCommandHandler {
	h.now = now
	return h
}

func (h *SubmitOrderCommandHandler) Handle(ctx context.Context, cmd SubmitOrderCommand) (*SubmissionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// The order id is derived exactly once per submission attempt. Every
	// downstream stage gets this same string: the ledger tag and the
	// conversion eventID must be byte-identical for the analytics dedup
	// window to merge the client and server reports.
	submittedAt := h.now().UTC()
	order := domain.OrderSubmission{
		OrderID:      domain.NewOrderID(h.namespace, cmd.Phone, submittedAt),
		CustomerName: cmd.CustomerName,
		Phone:        cmd.Phone,
		Address:      cmd.Address,
		City:         cmd.City,
		ProductSKU:   cmd.ProductSKU,
		ColorVariant: cmd.ColorVariant,
		OrderType:    cmd.OrderType,
		CreatedAt:    submittedAt,
	}

	if cmd.OrderType == domain.OrderTypeBuy {
		charge, err := domain.DeliveryCharge(cmd.DeliveryZone)
		if err != nil {
			return nil, err
		}
		order.DeliveryZone = cmd.DeliveryZone
		order.DeliveryCharge = charge
		order.ItemPrice = cmd.ItemPrice
		order.GrandTotal = cmd.ItemPrice + charge
	}

	result := &SubmissionResult{Order: order}

	steps := []progress.Step{
		{Stage: progress.StageVerifying, Run: func(context.Context) error {
			// The command was validated before the pipeline started;
			// a failure here means a precondition was bypassed.
			return order.Validate()
		}},
		{Stage: progress.StageNotifying, Run: func(ctx context.Context) error {
			result.Notifications = append(result.Notifications,
				outcome(domain.ChannelCustomerSMS, h.notifier.SendCustomerConfirmation(ctx, order)),
				outcome(domain.ChannelSalesSMS, h.notifier.SendSalesAlert(ctx, order)),
			)
			return nil
		}},
	}

	if order.IsBuy() {
		steps = append(steps, progress.Step{Stage: progress.StageLogging, Run: func(ctx context.Context) error {
			err := h.ledger.Record(ctx, ports.LedgerEntry{Order: order, Attribution: cmd.Attribution})
			result.Notifications = append(result.Notifications, outcome(domain.ChannelLedger, err))
			return nil
		}})
	}

	steps = append(steps, progress.Step{Stage: progress.StageRedirecting, Run: func(ctx context.Context) error {
		result.Conversion, result.Event = h.emitter.Emit(ctx, cmd.SessionID, order)

		plan := redirect.BuildPlan(order, h.classifier.Classify(cmd.UserAgent), h.redirect)
		launcher := &redirect.RecordingLauncher{}
		result.Handoff = h.executor(launcher).Execute(ctx, plan)
		return nil
	}})

	stages, err := h.runner.Run(ctx, steps)
	result.Stages = stages
	if err != nil {
		return nil, err
	}

	return result, nil
}

// outcome converts a provider error into the transient log-only record.
func outcome(channel domain.NotificationChannel, err error) domain.NotificationOutcome {
	if err != nil {
		return domain.NotificationOutcome{Channel: channel, ProviderMessage: err.Error()}
	}
	return domain.NotificationOutcome{Channel: channel, Success: true}
}
