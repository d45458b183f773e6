package redirect

import (
	"context"
	"log/slog"
	"time"
)

// Launcher delivers one URI launch to the client.
type Launcher interface {
	Launch(ctx context.Context, uri string) error
}

// VisibilityProbe reports whether the page is still in the foreground. When
// a deep link successfully hands the user to the app, the page goes to the
// background and a gated fallback must not fire.
type VisibilityProbe interface {
	Foreground(ctx context.Context) bool
}

// StaticProbe always reports a fixed visibility state. The production
// wiring uses StaticProbe(true): the server cannot observe the client page,
// so it assumes the degraded case and keeps the fallback in the plan.
type StaticProbe bool

func (p StaticProbe) Foreground(context.Context) bool {
	return bool(p)
}

// RecordingLauncher collects launched URIs instead of opening anything.
type RecordingLauncher struct {
	URIs []string
}

func (l *RecordingLauncher) Launch(_ context.Context, uri string) error {
	l.URIs = append(l.URIs, uri)
	return nil
}

// Executor interprets a Plan against a Launcher and a VisibilityProbe. It
// never returns an error: in the worst case the customer stays on the
// success screen, which is acceptable because the order is already
// recorded upstream.
type Executor struct {
	launcher Launcher
	probe    VisibilityProbe
	sleep    func(ctx context.Context, d time.Duration) error
	logger   *slog.Logger
}

// NewExecutor wires an executor. A nil sleep uses a real timer.
func NewExecutor(launcher Launcher, probe VisibilityProbe, logger *slog.Logger) *Executor {
	return &Executor{
		launcher: launcher,
		probe:    probe,
		sleep:    sleepOrDone,
		logger:   logger,
	}
}

// Handoff summarizes what the executor did with a plan.
type Handoff struct {
	Plan          Plan
	FallbackFired bool
}

// Execute launches the primary URI, then the fallback after the plan's
// delay. The fallback fires at most once, and a foreground-gated fallback
// is skipped when the probe says the app already took over.
func (e *Executor) Execute(ctx context.Context, plan Plan) Handoff {
	handoff := Handoff{Plan: plan}

	if err := e.launcher.Launch(ctx, plan.PrimaryURI); err != nil {
		e.logger.DebugContext(ctx, "primary launch failed", "uri", plan.PrimaryURI, "error", err)
	}

	if plan.FallbackURI == "" {
		return handoff
	}

	if err := e.sleep(ctx, plan.FallbackDelay); err != nil {
		// Canceled mid-wait: leave the user where they are.
		return handoff
	}

	if plan.ForegroundGated && !e.probe.Foreground(ctx) {
		e.logger.DebugContext(ctx, "app took over, skipping fallback", "uri", plan.FallbackURI)
		return handoff
	}

	if err := e.launcher.Launch(ctx, plan.FallbackURI); err != nil {
		e.logger.DebugContext(ctx, "fallback launch failed", "uri", plan.FallbackURI, "error", err)
		return handoff
	}

	handoff.FallbackFired = true
	return handoff
}

// WithSleep overrides the wait between primary and fallback. Tests use this
// to make fallback timing deterministic; the HTTP wiring uses it to skip
// the wait when the client script executes the plan itself.
func (e *Executor) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *Executor {
	e.sleep = sleep
	return e
}

func sleepOrDone(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoWait is a sleep that returns immediately, preserving cancelation
// semantics only.
func NoWait(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
