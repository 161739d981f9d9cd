package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/utils/logging"
)

const (
	// DefaultAttempts is the default number of attempts per action
	DefaultAttempts = 3
	// DefaultCountdown is the default wait between attempts
	DefaultCountdown = 15 * time.Second
)

// Runner executes a single action with bounded retry. Only errors
// tagged transient are retried; everything else is terminal on the
// first attempt.
type Runner struct {
	attempts  int
	countdown time.Duration
}

// RunnerOption is a functional option for Runner configuration
type RunnerOption func(*Runner)

// WithAttempts sets the maximum number of attempts
func WithAttempts(n int) RunnerOption {
	return func(r *Runner) {
		r.attempts = n
	}
}

// WithCountdown sets the wait between attempts
func WithCountdown(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.countdown = d
	}
}

// NewRunner creates a retry runner
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		attempts:  DefaultAttempts,
		countdown: DefaultCountdown,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do runs fn until it succeeds, fails terminally, or the attempts are
// exhausted
func (r *Runner) Do(ctx context.Context, fn func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !types.IsTransient(err) {
			return err
		}
		if attempt == r.attempts {
			break
		}

		logging.From(ctx).Warn("transient failure, retrying",
			"attempt", attempt,
			"countdown", r.countdown.String(),
			"error", err.Error())

		select {
		case <-time.After(r.countdown):
		case <-ctx.Done():
			return goerr.Wrap(ctx.Err(), "retry cancelled", goerr.V("attempt", attempt))
		}
	}
	return goerr.Wrap(err, "retries exhausted", goerr.V("attempts", r.attempts))
}
