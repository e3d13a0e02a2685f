package tasks

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/quest-runner/pkg/accounts"
	"github.com/lisanmuaddib/quest-runner/pkg/interfaces/odyssey"
	"github.com/lisanmuaddib/quest-runner/pkg/status"
)

// claimExecutor is a single gated campaign call: faucet, quest faucet or
// daily XP.
type claimExecutor struct {
	Deps
	task      status.Task
	policy    Policy
	call      func(ctx context.Context, account *accounts.Account) (*odyssey.Response, error)
	onSuccess func(log *logrus.Entry, resp *odyssey.Response)
}

func (e *claimExecutor) Name() status.Task {
	return e.task
}

func (e *claimExecutor) Execute(ctx context.Context, account *accounts.Account) Result {
	log := e.entry(e.task, account)

	if e.Store.IsDone(account.ID, e.task) {
		log.Info("Already done today, skipping")
		return skippedResult(e.task, KindNone, "already done today")
	}

	var resp *odyssey.Response
	out := runWithPolicy(ctx, e.Waiter, log, e.policy, func(ctx context.Context, attempt int) error {
		r, err := e.call(ctx, account)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})

	switch {
	case out.Succeeded:
		e.Store.MarkDone(account.ID, e.task)
		if e.onSuccess != nil {
			e.onSuccess(log, resp)
		}
		log.WithField("attempts", out.Attempts).Info("Claimed")
		result := Result{Task: e.task, Outcome: OutcomeSuccess, Attempts: out.Attempts}
		if resp != nil {
			result.Payload = resp.Body
		}
		return result
	case out.Action == ActionComplete:
		e.Store.MarkDone(account.ID, e.task)
		log.Info("Remote reports already completed")
		return Result{Task: e.task, Outcome: OutcomeSkipped, Kind: KindAlreadyCompleted, Message: out.Err.Error(), Attempts: out.Attempts}
	default:
		log.WithError(out.Err).WithField("kind", string(out.Kind)).Error("Claim failed")
		if out.Kind == KindInvalidCredential {
			log.Warn("Session cookie rejected, refresh it in the accounts file")
		}
		return failureResult(e.task, out.Kind, out.Attempts, out.Err)
	}
}

// NewFaucetExecutor claims the daily faucet grant of account.FaucetAmount.
func NewFaucetExecutor(deps Deps, api QuestAPI, policy Policy) Executor {
	return &claimExecutor{
		Deps:   deps,
		task:   status.TaskFaucet,
		policy: policy,
		call: func(ctx context.Context, account *accounts.Account) (*odyssey.Response, error) {
			return api.ClaimFaucet(ctx, account.Cookie, account.Wallet, account.FaucetAmount)
		},
	}
}

// NewQuestFaucetExecutor claims the quest that checks the faucet was used.
func NewQuestFaucetExecutor(deps Deps, api QuestAPI, policy Policy) Executor {
	return &claimExecutor{
		Deps:   deps,
		task:   status.TaskQuestFaucet,
		policy: policy,
		call: func(ctx context.Context, account *accounts.Account) (*odyssey.Response, error) {
			return api.CheckQuest(ctx, account.Cookie, account.Wallet, odyssey.QuestFaucet)
		},
	}
}

// NewDailyXPExecutor performs the daily check-in and logs streak telemetry.
func NewDailyXPExecutor(deps Deps, api QuestAPI, policy Policy) Executor {
	return &claimExecutor{
		Deps:   deps,
		task:   status.TaskDailyXP,
		policy: policy,
		call: func(ctx context.Context, account *accounts.Account) (*odyssey.Response, error) {
			return api.ClaimDailyXP(ctx, account.Cookie, account.Wallet)
		},
		onSuccess: logStreak,
	}
}

func logStreak(log *logrus.Entry, resp *odyssey.Response) {
	xp, err := odyssey.ParseDailyXP(resp)
	if err != nil {
		log.WithError(err).Debug("Daily XP response not understood")
		return
	}

	t := xp.Telemetry()
	fields := logrus.Fields{}
	if t.CurrentStreak != nil {
		fields["streak"] = fmt.Sprintf("%d days", *t.CurrentStreak)
	}
	if t.XPEarned != nil {
		fields["xp_earned"] = *t.XPEarned
	}
	if t.NewLevel != nil {
		fields["level"] = *t.NewLevel
	}
	if len(fields) > 0 {
		log.WithFields(fields).Info("Daily XP telemetry")
	}
}
