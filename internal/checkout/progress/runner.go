// Package progress drives the staged submission pipeline with a minimum
// per-stage dwell so the progress UI stays legible.
package progress

import (
	"context"
	"time"
)

// Stage names one step of the submission pipeline, in fixed order.
type Stage string

const (
	StageVerifying   Stage = "verifying"
	StageNotifying   Stage = "notifying"
	StageLogging     Stage = "logging"
	StageRedirecting Stage = "redirecting"
	StageDone        Stage = "done"
)

// Step pairs a stage with the work it fronts.
type Step struct {
	Stage Stage
	Run   func(ctx context.Context) error
}

// StageResult reports how long one stage was held on screen.
type StageResult struct {
	Stage    Stage
	Duration time.Duration
}

// Runner executes steps strictly in sequence. A stage is held for at least
// the minimum dwell even when its call resolves instantly; a slow call is
// never truncated.
type Runner struct {
	minDwell time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	now      func() time.Time
}

// NewRunner creates a runner with the given minimum dwell per stage.
func NewRunner(minDwell time.Duration) *Runner {
	return &Runner{
		minDwell: minDwell,
		sleep:    sleepOrDone,
		now:      time.Now,
	}
}

// Run executes every step in order and returns the per-stage timeline. Only
// a step error stops the sequence; the steps themselves are expected to
// swallow provider failures, so an error here means a precondition was
// bypassed.
func (r *Runner) Run(ctx context.Context, steps []Step) ([]StageResult, error) {
	results := make([]StageResult, 0, len(steps))

	for _, step := range steps {
		start := r.now()
		if err := step.Run(ctx); err != nil {
			return results, err
		}

		elapsed := r.now().Sub(start)
		if remaining := r.minDwell - elapsed; remaining > 0 {
			if err := r.sleep(ctx, remaining); err != nil {
				return results, err
			}
			elapsed = r.minDwell
		}

		results = append(results, StageResult{Stage: step.Stage, Duration: elapsed})
	}

	return results, nil
}

// WithSleep overrides the dwell wait, for deterministic tests.
func (r *Runner) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *Runner {
	r.sleep = sleep
	return r
}

// WithNow overrides the clock, for deterministic tests.
func (r *Runner) WithNow(now func() time.Time) *Runner {
	r.now = now
	return r
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
