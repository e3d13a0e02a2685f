package agent

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/quest-runner/pkg/accounts"
	"github.com/lisanmuaddib/quest-runner/pkg/pause"
	"github.com/lisanmuaddib/quest-runner/pkg/tasks"
)

// Pipeline runs a fixed list of executors for one account.
type Pipeline struct {
	executors []tasks.Executor
	waiter    pause.Waiter
	logger    *logrus.Logger
	delay     time.Duration
}

// NewPipeline creates a Pipeline that waits delay between two executors.
func NewPipeline(executors []tasks.Executor, waiter pause.Waiter, logger *logrus.Logger, delay time.Duration) *Pipeline {
	return &Pipeline{
		executors: executors,
		waiter:    waiter,
		logger:    logger,
		delay:     delay,
	}
}

// Run executes every task in order. A failed task never stops the ones after
// it; only a cancelled context does.
func (p *Pipeline) Run(ctx context.Context, account *accounts.Account) []tasks.Result {
	log := p.logger.WithField("account", account.Name)
	log.WithField("wallet", account.ShortWallet()).Info("Starting account pipeline")

	results := make([]tasks.Result, 0, len(p.executors))
	for i, exec := range p.executors {
		if i > 0 {
			if err := p.waiter.Countdown(ctx, p.delay, "Next task in"); err != nil {
				log.WithError(err).Warn("Pipeline interrupted")
				return results
			}
		}

		result := exec.Execute(ctx, account)
		logResult(log, result)
		results = append(results, result)
	}

	return results
}

func logResult(log *logrus.Entry, result tasks.Result) {
	entry := log.WithFields(logrus.Fields{
		"task":    string(result.Task),
		"outcome": string(result.Outcome),
	})
	if result.Kind != tasks.KindNone {
		entry = entry.WithField("kind", string(result.Kind))
	}
	if result.Attempts > 0 {
		entry = entry.WithField("attempts", result.Attempts)
	}

	switch result.Outcome {
	case tasks.OutcomeFailure:
		entry.WithField("message", result.Message).Warn("Task failed")
	case tasks.OutcomeSkipped:
		entry.Info("Task skipped")
	default:
		entry.Info("Task completed")
	}
}
