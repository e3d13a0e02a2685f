package agent

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lisanmuaddib/quest-runner/pkg/accounts"
	"github.com/lisanmuaddib/quest-runner/pkg/status"
	"github.com/lisanmuaddib/quest-runner/pkg/tasks"
)

// ModeFull marks a pass that ran the whole pipeline.
const ModeFull = "full"

// AccountReport holds the results one account produced in a pass.
type AccountReport struct {
	Account *accounts.Account
	Results []tasks.Result
}

// PassReport describes one campaign pass.
type PassReport struct {
	RunID      uuid.UUID
	Mode       string
	StartedAt  time.Time
	FinishedAt time.Time
	Accounts   []AccountReport
}

// Counts tallies the outcomes of every result in the pass.
func (r *PassReport) Counts() (succeeded, failed, skipped int) {
	for _, account := range r.Accounts {
		for _, result := range account.Results {
			switch result.Outcome {
			case tasks.OutcomeSuccess:
				succeeded++
			case tasks.OutcomeFailure:
				failed++
			case tasks.OutcomeSkipped:
				skipped++
			}
		}
	}
	return succeeded, failed, skipped
}

// Recorder persists finished passes.
type Recorder interface {
	RecordPass(ctx context.Context, report *PassReport) error
}

// Recorders hands every pass to each recorder in turn.
type Recorders []Recorder

// RecordPass implements Recorder. Every recorder runs even if an earlier
// one fails.
func (rs Recorders) RecordPass(ctx context.Context, report *PassReport) error {
	var errs []error
	for _, r := range rs {
		if err := r.RecordPass(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StatusReader exposes today's completion flags.
type StatusReader interface {
	Snapshot(accountID int) map[status.Task]bool
	ResetDate() string
}
