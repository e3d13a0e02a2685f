package tasks

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/quest-runner/pkg/accounts"
	"github.com/lisanmuaddib/quest-runner/pkg/interfaces/odyssey"
	"github.com/lisanmuaddib/quest-runner/pkg/interfaces/twitter"
	"github.com/lisanmuaddib/quest-runner/pkg/pause"
	"github.com/lisanmuaddib/quest-runner/pkg/status"
	"github.com/lisanmuaddib/quest-runner/pkg/wallet"
)

// Executor runs one daily task for one account.
type Executor interface {
	Name() status.Task
	Execute(ctx context.Context, account *accounts.Account) Result
}

// StatusStore is the daily completion record the executors consult.
type StatusStore interface {
	IsDone(accountID int, task status.Task) bool
	MarkDone(accountID int, task status.Task)
}

// QuestAPI is the campaign HTTP surface.
type QuestAPI interface {
	ClaimFaucet(ctx context.Context, cookie, wallet string, amount int) (*odyssey.Response, error)
	CheckQuest(ctx context.Context, cookie, wallet string, questID int) (*odyssey.Response, error)
	ClaimDailyXP(ctx context.Context, cookie, wallet string) (*odyssey.Response, error)
}

// SocialClient posts and deletes tweets.
type SocialClient interface {
	PostTweet(ctx context.Context, text string, creds twitter.Credentials) (*twitter.Tweet, error)
	DeleteTweet(ctx context.Context, tweetID string, creds twitter.Credentials) (bool, error)
}

// CredentialSource hands out the next social credential set.
type CredentialSource interface {
	Next() (twitter.Credentials, bool)
}

// TweetComposer writes quest tweet text.
type TweetComposer interface {
	Generate(ctx context.Context) string
}

// ChainClient is the chain surface the bridge needs.
type ChainClient interface {
	GetBalance(ctx context.Context, address common.Address) (*big.Int, error)
	PendingNonce(ctx context.Context, address common.Address) (uint64, error)
	SendTransfer(ctx context.Context, key *wallet.KeyManager, t wallet.Transfer) (common.Hash, error)
	WaitForReceipt(ctx context.Context, hash common.Hash, confirmations uint64) (*wallet.TransactionStatus, error)
}

// Deps are shared by every executor.
type Deps struct {
	Store  StatusStore
	Waiter pause.Waiter
	Logger *logrus.Logger
}

func (d Deps) entry(task status.Task, account *accounts.Account) *logrus.Entry {
	return d.Logger.WithFields(logrus.Fields{
		"account": account.Name,
		"task":    string(task),
	})
}
