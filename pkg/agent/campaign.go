package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/quest-runner/pkg/accounts"
	"github.com/lisanmuaddib/quest-runner/pkg/pause"
	"github.com/lisanmuaddib/quest-runner/pkg/tasks"
)

// Campaign drives passes over the selected accounts.
type Campaign struct {
	pipeline *Pipeline
	waiter   pause.Waiter
	logger   *logrus.Logger
	config   *SchedulerConfig
	recorder Recorder
	onPass   func(*PassReport)
	now      func() time.Time
}

// NewCampaign creates a Campaign. recorder may be nil.
func NewCampaign(pipeline *Pipeline, waiter pause.Waiter, logger *logrus.Logger, config *SchedulerConfig, recorder Recorder) *Campaign {
	return &Campaign{
		pipeline: pipeline,
		waiter:   waiter,
		logger:   logger,
		config:   config,
		recorder: recorder,
		now:      time.Now,
	}
}

// RunOnce runs the full pipeline for every account in order. The pass
// finishes even if ctx is cancelled while it runs.
func (c *Campaign) RunOnce(ctx context.Context, selected []*accounts.Account) *PassReport {
	return c.pass(ctx, ModeFull, selected, c.config.InterAccountDelay, c.pipeline.Run)
}

// RunTask runs a single executor for every account in order.
func (c *Campaign) RunTask(ctx context.Context, exec tasks.Executor, selected []*accounts.Account) *PassReport {
	run := func(ctx context.Context, account *accounts.Account) []tasks.Result {
		result := exec.Execute(ctx, account)
		logResult(c.logger.WithField("account", account.Name), result)
		return []tasks.Result{result}
	}
	return c.pass(ctx, string(exec.Name()), selected, c.config.SingleTaskAccountDelay, run)
}

// RunLoop runs full passes until ctx is cancelled. Cancellation is observed
// between passes and during the sleep that separates them.
func (c *Campaign) RunLoop(ctx context.Context, selected []*accounts.Account) error {
	for pass := 1; ; pass++ {
		c.logger.WithField("pass", pass).Info("Starting campaign pass")
		c.RunOnce(ctx, selected)

		if err := ctx.Err(); err != nil {
			c.logger.Info("Loop cancelled, not scheduling another pass")
			return err
		}

		c.logger.WithFields(logrus.Fields{
			"pass":     pass,
			"next_run": c.now().Add(c.config.LoopInterval).Format(time.RFC3339),
		}).Info("Pass finished, sleeping until next run")

		if err := c.waiter.Countdown(ctx, c.config.LoopInterval, "Next run in"); err != nil {
			c.logger.Info("Loop cancelled during sleep")
			return err
		}
	}
}

type accountRun func(ctx context.Context, account *accounts.Account) []tasks.Result

func (c *Campaign) pass(ctx context.Context, mode string, selected []*accounts.Account, delay time.Duration, run accountRun) *PassReport {
	ctx = context.WithoutCancel(ctx)
	report := &PassReport{
		RunID:     uuid.New(),
		Mode:      mode,
		StartedAt: c.now(),
		Accounts:  make([]AccountReport, 0, len(selected)),
	}
	log := c.logger.WithFields(logrus.Fields{
		"run_id": report.RunID.String(),
		"mode":   mode,
	})
	log.WithField("accounts", len(selected)).Info("Pass started")

	for i, account := range selected {
		log.WithField("progress", fmt.Sprintf("%d/%d", i+1, len(selected))).
			WithField("account", account.String()).
			Info("Processing account")

		report.Accounts = append(report.Accounts, AccountReport{
			Account: account,
			Results: run(ctx, account),
		})

		if i < len(selected)-1 {
			_ = c.waiter.Countdown(ctx, delay, "Next account in")
		}
	}

	report.FinishedAt = c.now()
	succeeded, failed, skipped := report.Counts()
	log.WithFields(logrus.Fields{
		"succeeded": succeeded,
		"failed":    failed,
		"skipped":   skipped,
		"duration":  report.FinishedAt.Sub(report.StartedAt).Round(time.Second).String(),
	}).Info("Pass finished")

	if c.recorder != nil {
		if err := c.recorder.RecordPass(ctx, report); err != nil {
			log.WithError(err).Warn("Failed to record pass history")
		}
	}
	if c.onPass != nil {
		c.onPass(report)
	}

	return report
}
