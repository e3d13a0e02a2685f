package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/quest-runner/internal/config"
	"github.com/lisanmuaddib/quest-runner/internal/personality/traits"
	"github.com/lisanmuaddib/quest-runner/pkg/accounts"
	"github.com/lisanmuaddib/quest-runner/pkg/agent"
	"github.com/lisanmuaddib/quest-runner/pkg/db"
	"github.com/lisanmuaddib/quest-runner/pkg/interfaces/odyssey"
	"github.com/lisanmuaddib/quest-runner/pkg/interfaces/twitter"
	"github.com/lisanmuaddib/quest-runner/pkg/llm/openai"
	"github.com/lisanmuaddib/quest-runner/pkg/logging"
	"github.com/lisanmuaddib/quest-runner/pkg/notify"
	"github.com/lisanmuaddib/quest-runner/pkg/pause"
	"github.com/lisanmuaddib/quest-runner/pkg/status"
	"github.com/lisanmuaddib/quest-runner/pkg/status/statusredis"
	"github.com/lisanmuaddib/quest-runner/pkg/tasks"
	"github.com/lisanmuaddib/quest-runner/pkg/thoughts"
	"github.com/lisanmuaddib/quest-runner/pkg/wallet"
)

// runtime is everything a quest command needs.
type runtime struct {
	log      *logrus.Logger
	all      []*accounts.Account
	selected []*accounts.Account
	agent    *agent.Agent
	closers  []func()
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}

func newRuntime(ctx context.Context, withChain bool) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	rt := &runtime{log: log}

	rt.all, err = accounts.LoadAccounts(cfg.AccountsFile, log)
	if err != nil {
		return nil, err
	}
	if len(rt.all) == 0 {
		return nil, fmt.Errorf("no accounts found in %s", cfg.AccountsFile)
	}
	rt.selected = accounts.Select(rt.all, accountSelector)
	log.WithFields(logrus.Fields{
		"selected": len(rt.selected),
		"total":    len(rt.all),
	}).Info("Accounts selected")

	creds, err := accounts.LoadTwitterCredentials(cfg.TwitterFile, log)
	if err != nil {
		return nil, err
	}
	proxies, err := accounts.LoadProxies(cfg.ProxyFile, log)
	if err != nil {
		return nil, err
	}

	odysseyConfig, err := odyssey.NewConfig(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create Odyssey config: %w", err)
	}
	odysseyConfig.Proxies = proxies
	api, err := odyssey.NewClient(odysseyConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Odyssey client: %w", err)
	}

	twitterConfig, err := twitter.NewTwitterConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create Twitter config: %w", err)
	}
	twitterConfig.Logger = log
	social, err := twitter.NewTwitterClient(twitterConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Twitter client: %w", err)
	}

	composer := thoughts.NewQuestTweetGenerator(thoughts.Config{
		Logger:  log,
		Keyword: cfg.TweetKeyword,
		Opener:  newOpener(log),
	})

	store, err := rt.openStore(ctx, cfg.Location())
	if err != nil {
		rt.Close()
		return nil, err
	}

	// The node is dialed on first use so an outage fails that bridge attempt
	// instead of dropping the task for the whole process.
	var chain tasks.ChainClient
	if withChain {
		client := wallet.NewLazyClient(log, cfg.Network())
		chain = client
		rt.closers = append(rt.closers, client.Close)
	}

	var recorders agent.Recorders
	if history, closeDB, err := openHistory(log); err == nil {
		recorders = append(recorders, history)
		rt.closers = append(rt.closers, closeDB)
	} else if !errors.Is(err, errHistoryDisabled) {
		log.WithError(err).Warn("Run history unavailable")
	}
	if notifier, err := openNotifier(log); err != nil {
		log.WithError(err).Warn("Telegram notifications unavailable")
	} else if notifier != nil {
		recorders = append(recorders, notifier)
	}
	var recorder agent.Recorder
	if len(recorders) > 0 {
		recorder = recorders
	}

	destination := cfg.Destination()
	rt.agent, err = agent.New(agent.Config{
		Logger:            log,
		Store:             store,
		Waiter:            pause.NewClock(os.Stdout),
		API:               api,
		Social:            social,
		Credentials:       twitter.NewRotator(creds),
		Composer:          composer,
		Chain:             chain,
		BridgeDestination: &destination,
		Recorder:          recorder,
		OnPass: func(*agent.PassReport) {
			agent.PrintStatus(os.Stdout, store, rt.all)
		},
	})
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	return rt, nil
}

// openStore builds the daily status store, backed by Redis when
// STATUS_REDIS_ADDR is set.
func (rt *runtime) openStore(ctx context.Context, loc *time.Location) (*status.Store, error) {
	opts := []status.Option{status.WithLogger(rt.log)}

	redisConfig, err := statusredis.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create status Redis config: %w", err)
	}
	if !redisConfig.Enabled() {
		rt.log.Warn("Daily status is kept in memory only; restarting today repeats already claimed tasks (set STATUS_REDIS_ADDR to persist)")
		return status.NewStore(loc, opts...), nil
	}

	persister, err := statusredis.New(ctx, redisConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect status Redis: %w", err)
	}
	rt.closers = append(rt.closers, func() { persister.Close() })

	keys := make(map[int]string, len(rt.all))
	for _, account := range rt.all {
		keys[account.ID] = strings.ToLower(account.Wallet)
	}
	store := status.NewStore(loc, append(opts,
		status.WithPersister(persister),
		status.WithAccountKeys(keys),
	)...)
	if err := store.Restore(ctx); err != nil {
		rt.log.WithError(err).Warn("Failed to restore daily status, starting empty")
	}
	rt.log.WithField("addr", redisConfig.Address).Info("Daily status persisted to Redis")
	return store, nil
}

// openNotifier returns nil when Telegram is not configured.
func openNotifier(log *logrus.Logger) (*notify.TelegramNotifier, error) {
	telegramConfig, err := notify.NewTelegramConfig()
	if err != nil {
		return nil, err
	}
	if !telegramConfig.Enabled() {
		return nil, nil
	}
	return notify.NewTelegramNotifier(telegramConfig, log, nil)
}

// newOpener returns the LLM opener when OpenAI is configured.
func newOpener(log *logrus.Logger) thoughts.OpenerSource {
	openaiConfig, err := openai.NewOpenAIConfig(log)
	if err != nil {
		if !errors.Is(err, openai.ErrNoAPIKey) {
			log.WithError(err).Warn("OpenAI config invalid, using fixed tweet openers")
		}
		return nil
	}

	client, err := openai.NewClient(openaiConfig)
	if err != nil {
		log.WithError(err).Warn("Failed to create OpenAI client, using fixed tweet openers")
		return nil
	}
	log.WithField("model", openaiConfig.Model).Info("Using OpenAI for tweet openers")
	return thoughts.NewLLMOpener(client, thoughts.WithPrompt(traits.NewQuestOpenerPrompt()))
}

var errHistoryDisabled = errors.New("history database not configured (set HISTORY_DATABASE_URL or DB_HOST)")

func openHistory(log *logrus.Logger) (*db.HistoryRecorder, func(), error) {
	dbConfig := db.NewConfig()
	if !dbConfig.Enabled() {
		return nil, nil, errHistoryDisabled
	}

	gormDB, err := db.SetupDatabase(log, dbConfig)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(gormDB); err != nil {
			log.WithError(err).Warn("Failed to close history database")
		}
	}
	return db.NewHistoryRecorder(gormDB, log), closeDB, nil
}
