package tasks

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/quest-runner/pkg/pause"
)

// attemptFunc performs attempt number n (1-based).
type attemptFunc func(ctx context.Context, attempt int) error

// retryOutcome is how a policy-driven loop ended.
type retryOutcome struct {
	// Succeeded is true when an attempt returned nil.
	Succeeded bool
	// Action is the final decision when Succeeded is false.
	Action   Action
	Kind     Kind
	Err      error
	Attempts int
}

// runWithPolicy calls fn until it succeeds or policy ends the run.
func runWithPolicy(ctx context.Context, waiter pause.Waiter, log *logrus.Entry, policy Policy, fn attemptFunc) retryOutcome {
	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		alog := log.WithField("attempt", attempt)

		if attempt > 1 && policy.RetryDelay > 0 {
			if err := waiter.Countdown(ctx, policy.RetryDelay, "Delay before retry"); err != nil {
				return retryOutcome{Action: ActionAbort, Kind: Classify(lastErr), Err: err, Attempts: attempt - 1}
			}
		}

		alog.WithField("max_attempts", policy.MaxAttempts).Debug("Attempting")
		err := fn(ctx, attempt)
		if err == nil {
			return retryOutcome{Succeeded: true, Attempts: attempt}
		}
		lastErr = err

		d := policy.Decide(attempt, err)
		alog.WithError(err).WithFields(logrus.Fields{
			"kind":   string(d.Kind),
			"action": d.Action.String(),
			"wait":   d.Wait.String(),
		}).Warn("Attempt failed")

		switch d.Action {
		case ActionComplete, ActionAbort, ActionExhausted:
			return retryOutcome{Action: d.Action, Kind: d.Kind, Err: err, Attempts: attempt}
		}

		if d.Wait > 0 {
			var werr error
			if d.Kind == KindRateLimited {
				werr = waiter.Countdown(ctx, d.Wait, "Waiting for rate limit")
			} else {
				werr = waiter.Sleep(ctx, d.Wait)
			}
			if werr != nil {
				return retryOutcome{Action: ActionAbort, Kind: d.Kind, Err: werr, Attempts: attempt}
			}
		}
	}

	// Only reached when MaxAttempts is zero or negative.
	return retryOutcome{Action: ActionExhausted, Kind: KindMaxRetriesExceeded, Err: lastErr, Attempts: policy.MaxAttempts}
}
