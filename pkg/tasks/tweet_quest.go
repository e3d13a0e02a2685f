package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/quest-runner/pkg/accounts"
	"github.com/lisanmuaddib/quest-runner/pkg/interfaces/odyssey"
	"github.com/lisanmuaddib/quest-runner/pkg/interfaces/twitter"
	"github.com/lisanmuaddib/quest-runner/pkg/status"
	"github.com/lisanmuaddib/quest-runner/pkg/thoughts"
)

// TweetQuestTiming holds the fixed waits of the tweet quest.
type TweetQuestTiming struct {
	// IndexDelay gives the campaign time to see the tweet before claiming.
	IndexDelay time.Duration
	// AfterClaim is waited before deleting once the claim succeeded.
	AfterClaim time.Duration
	// AfterAlreadyCompleted is waited before deleting on an already-completed answer.
	AfterAlreadyCompleted time.Duration
}

// DefaultTweetQuestTiming returns 45s / 5s / 3s.
func DefaultTweetQuestTiming() TweetQuestTiming {
	return TweetQuestTiming{
		IndexDelay:            45 * time.Second,
		AfterClaim:            5 * time.Second,
		AfterAlreadyCompleted: 3 * time.Second,
	}
}

// TweetQuestConfig wires the tweet quest executor.
type TweetQuestConfig struct {
	API         QuestAPI
	Social      SocialClient
	Credentials CredentialSource
	Composer    TweetComposer

	ClaimPolicy  Policy
	SendPolicy   Policy
	DeletePolicy Policy
	Timing       TweetQuestTiming
}

type tweetQuestExecutor struct {
	Deps
	config TweetQuestConfig
}

// NewTweetQuestExecutor posts a tweet, claims the tweet quest and deletes
// the tweet again. Once a tweet is posted it is always targeted for deletion
// before Execute returns, using the credentials that posted it.
func NewTweetQuestExecutor(deps Deps, config TweetQuestConfig) Executor {
	return &tweetQuestExecutor{Deps: deps, config: config}
}

func (e *tweetQuestExecutor) Name() status.Task {
	return status.TaskQuestTweet
}

func (e *tweetQuestExecutor) Execute(ctx context.Context, account *accounts.Account) Result {
	task := status.TaskQuestTweet
	log := e.entry(task, account)

	if e.Store.IsDone(account.ID, task) {
		log.Info("Already done today, skipping")
		return skippedResult(task, KindNone, "already done today")
	}

	creds, ok := e.config.Credentials.Next()
	if !ok {
		log.Error("No Twitter credentials configured")
		return failureResult(task, KindTweetFailed, 0, errors.New("no twitter credentials configured"))
	}

	text := e.config.Composer.Generate(ctx)
	log.WithFields(logrus.Fields{
		"words":       thoughts.WordCount(text),
		"credentials": creds.Name,
	}).Info("Posting quest tweet")

	tweet, err := e.post(ctx, log, text, creds)
	if err != nil {
		log.WithError(err).Error("Tweet could not be posted, skipping claim")
		return failureResult(task, KindTweetFailed, 0, err)
	}
	log = log.WithField("tweet_id", tweet.ID)
	log.WithField("link", twitter.StatusURL(tweet.ID)).Info("Tweet posted")

	if err := e.Waiter.Countdown(ctx, e.config.Timing.IndexDelay, "Waiting before claiming tweet quest"); err != nil {
		e.deleteTweet(ctx, log, tweet.ID, creds)
		return failureResult(task, KindNone, 0, err)
	}

	out := runWithPolicy(ctx, e.Waiter, log, e.config.ClaimPolicy, func(ctx context.Context, attempt int) error {
		_, err := e.config.API.CheckQuest(ctx, account.Cookie, account.Wallet, odyssey.QuestTweet)
		return err
	})

	var result Result
	switch {
	case out.Succeeded:
		log.Info("Tweet quest claimed")
		_ = e.Waiter.Sleep(ctx, e.config.Timing.AfterClaim)
		result = Result{Task: task, Outcome: OutcomeSuccess, Attempts: out.Attempts}
	case out.Action == ActionComplete:
		log.Info("Tweet quest already completed")
		_ = e.Waiter.Sleep(ctx, e.config.Timing.AfterAlreadyCompleted)
		result = Result{Task: task, Outcome: OutcomeSkipped, Kind: KindAlreadyCompleted, Message: out.Err.Error(), Attempts: out.Attempts}
	default:
		log.WithError(out.Err).WithField("kind", string(out.Kind)).Error("Tweet quest claim failed")
		result = failureResult(task, out.Kind, out.Attempts, out.Err)
	}

	e.deleteTweet(ctx, log, tweet.ID, creds)

	if result.OK() {
		e.Store.MarkDone(account.ID, task)
	}
	result.TweetID = tweet.ID
	return result
}

func (e *tweetQuestExecutor) post(ctx context.Context, log *logrus.Entry, text string, creds twitter.Credentials) (*twitter.Tweet, error) {
	var tweet *twitter.Tweet
	out := runWithPolicy(ctx, e.Waiter, log.WithField("step", "post"), e.config.SendPolicy, func(ctx context.Context, attempt int) error {
		t, err := e.config.Social.PostTweet(ctx, text, creds)
		if err != nil {
			return err
		}
		if t == nil || t.ID == "" {
			return errors.New("tweet posted without an id")
		}
		tweet = t
		return nil
	})
	if !out.Succeeded {
		return nil, out.Err
	}
	return tweet, nil
}

// deleteTweet is best effort: failures are logged and never change the result.
func (e *tweetQuestExecutor) deleteTweet(ctx context.Context, log *logrus.Entry, tweetID string, creds twitter.Credentials) {
	log.Info("Deleting quest tweet")
	out := runWithPolicy(ctx, e.Waiter, log.WithField("step", "delete"), e.config.DeletePolicy, func(ctx context.Context, attempt int) error {
		_, err := e.config.Social.DeleteTweet(ctx, tweetID, creds)
		return err
	})
	if out.Succeeded {
		log.Info("Quest tweet deleted")
		return
	}
	log.WithError(out.Err).Warn("Quest tweet could not be deleted")
}
