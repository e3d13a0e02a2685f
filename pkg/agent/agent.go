// Package agent wires the quest executors into account pipelines and
// campaign passes.
package agent

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/quest-runner/pkg/accounts"
	"github.com/lisanmuaddib/quest-runner/pkg/pause"
	"github.com/lisanmuaddib/quest-runner/pkg/status"
	"github.com/lisanmuaddib/quest-runner/pkg/tasks"
)

// Config holds the collaborators the agent runs against.
type Config struct {
	Logger      *logrus.Logger
	Store       tasks.StatusStore
	Waiter      pause.Waiter
	API         tasks.QuestAPI
	Social      tasks.SocialClient
	Credentials tasks.CredentialSource
	Composer    tasks.TweetComposer
	// Chain is optional; without it the bridge task is left out.
	Chain tasks.ChainClient
	// BridgeDestination overrides tasks.DefaultBridgeDestination when set.
	BridgeDestination *common.Address
	Scheduler         *SchedulerConfig
	Recorder          Recorder
	// OnPass is called after every finished pass.
	OnPass func(*PassReport)
}

// Agent owns the executors and the campaign that drives them.
type Agent struct {
	logger    *logrus.Logger
	executors map[status.Task]tasks.Executor
	campaign  *Campaign
}

// New creates a new Agent instance
func New(config Config) (*Agent, error) {
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	a := &Agent{
		logger:    config.Logger,
		executors: make(map[status.Task]tasks.Executor),
	}

	ordered := a.initializeExecutors(config)
	pipeline := NewPipeline(ordered, config.Waiter, config.Logger, config.Scheduler.InterTaskDelay)
	a.campaign = NewCampaign(pipeline, config.Waiter, config.Logger, config.Scheduler, config.Recorder)
	a.campaign.onPass = config.OnPass

	return a, nil
}

// RunOnce runs one full pass.
func (a *Agent) RunOnce(ctx context.Context, selected []*accounts.Account) *PassReport {
	return a.campaign.RunOnce(ctx, selected)
}

// RunLoop runs full passes until ctx is cancelled.
func (a *Agent) RunLoop(ctx context.Context, selected []*accounts.Account) error {
	return a.campaign.RunLoop(ctx, selected)
}

// RunTask runs one task across the selected accounts.
func (a *Agent) RunTask(ctx context.Context, task status.Task, selected []*accounts.Account) (*PassReport, error) {
	exec, err := a.Executor(task)
	if err != nil {
		return nil, err
	}
	return a.campaign.RunTask(ctx, exec, selected), nil
}

// Executor returns the executor for task.
func (a *Agent) Executor(task status.Task) (tasks.Executor, error) {
	exec, ok := a.executors[task]
	if !ok {
		return nil, fmt.Errorf("task %s is not available", task)
	}
	return exec, nil
}

func validateConfig(config *Config) error {
	if config.Store == nil {
		return fmt.Errorf("status store is required")
	}
	if config.API == nil {
		return fmt.Errorf("quest API client is required")
	}
	if config.Social == nil {
		return fmt.Errorf("social client is required")
	}
	if config.Credentials == nil {
		return fmt.Errorf("credential source is required")
	}
	if config.Composer == nil {
		return fmt.Errorf("tweet composer is required")
	}
	if config.Waiter == nil {
		config.Waiter = pause.NewClock(nil)
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	if config.Scheduler == nil {
		config.Scheduler = NewDefaultSchedulerConfig()
	}
	return config.Scheduler.Validate()
}

// initializeExecutors builds every available executor and returns them in
// pipeline order.
func (a *Agent) initializeExecutors(config Config) []tasks.Executor {
	deps := tasks.Deps{Store: config.Store, Waiter: config.Waiter, Logger: config.Logger}

	ordered := []tasks.Executor{
		tasks.NewFaucetExecutor(deps, config.API, tasks.FaucetPolicy()),
		tasks.NewQuestFaucetExecutor(deps, config.API, tasks.QuestFaucetPolicy()),
		tasks.NewDailyXPExecutor(deps, config.API, tasks.DailyXPPolicy()),
		tasks.NewTweetQuestExecutor(deps, tasks.TweetQuestConfig{
			API:          config.API,
			Social:       config.Social,
			Credentials:  config.Credentials,
			Composer:     config.Composer,
			ClaimPolicy:  tasks.TweetClaimPolicy(),
			SendPolicy:   tasks.TweetSendPolicy(),
			DeletePolicy: tasks.TweetDeletePolicy(),
			Timing:       tasks.DefaultTweetQuestTiming(),
		}),
	}

	if config.Chain != nil {
		bridge := tasks.DefaultBridgeConfig(config.Chain)
		if config.BridgeDestination != nil {
			bridge.Destination = *config.BridgeDestination
		}
		ordered = append(ordered, tasks.NewBridgeExecutor(deps, bridge))
	} else {
		config.Logger.Warn("No chain client configured, bridge task disabled")
	}

	for _, exec := range ordered {
		a.executors[exec.Name()] = exec
	}
	return ordered
}
