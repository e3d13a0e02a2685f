package tasks_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/quest-runner/pkg/accounts"
	"github.com/lisanmuaddib/quest-runner/pkg/interfaces/odyssey"
	"github.com/lisanmuaddib/quest-runner/pkg/interfaces/twitter"
	"github.com/lisanmuaddib/quest-runner/pkg/pause/pausetest"
	"github.com/lisanmuaddib/quest-runner/pkg/status"
	"github.com/lisanmuaddib/quest-runner/pkg/tasks"
	"github.com/lisanmuaddib/quest-runner/pkg/wallet"
)

const devKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func apiErr(code int, message string) error {
	return &odyssey.APIError{StatusCode: code, Message: message}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testAccount(id int) *accounts.Account {
	return &accounts.Account{
		ID:           id,
		Name:         fmt.Sprintf("Account %d", id),
		Wallet:       "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		Cookie:       "session=abc",
		FaucetAmount: 2,
	}
}

// countingStore counts MarkDone calls on top of a real store.
type countingStore struct {
	*status.Store
	mu    sync.Mutex
	marks map[status.Task]int
}

func newCountingStore() *countingStore {
	loc, _ := time.LoadLocation(status.DefaultTimeZone)
	return &countingStore{Store: status.NewStore(loc), marks: map[status.Task]int{}}
}

func (s *countingStore) MarkDone(accountID int, task status.Task) {
	s.mu.Lock()
	s.marks[task]++
	s.mu.Unlock()
	s.Store.MarkDone(accountID, task)
}

func (s *countingStore) Marks(task status.Task) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marks[task]
}

// script pops scripted errors; once exhausted every call succeeds.
type script struct {
	errs  []error
	calls int
}

func (s *script) next() error {
	s.calls++
	if len(s.errs) == 0 {
		return nil
	}
	err := s.errs[0]
	s.errs = s.errs[1:]
	return err
}

type fakeQuestAPI struct {
	faucet, questFaucet, questTweet, xp script
	log                                 []string
	xpBody                              string
}

func (f *fakeQuestAPI) ClaimFaucet(ctx context.Context, cookie, wallet string, amount int) (*odyssey.Response, error) {
	f.log = append(f.log, "faucet")
	if err := f.faucet.next(); err != nil {
		return nil, err
	}
	return &odyssey.Response{StatusCode: 200, Body: []byte(`{"ok":true}`)}, nil
}

func (f *fakeQuestAPI) CheckQuest(ctx context.Context, cookie, wallet string, questID int) (*odyssey.Response, error) {
	s := &f.questFaucet
	f.log = append(f.log, fmt.Sprintf("quest-%d", questID))
	if questID == odyssey.QuestTweet {
		s = &f.questTweet
	}
	if err := s.next(); err != nil {
		return nil, err
	}
	return &odyssey.Response{StatusCode: 200, Body: []byte(`{}`)}, nil
}

func (f *fakeQuestAPI) ClaimDailyXP(ctx context.Context, cookie, wallet string) (*odyssey.Response, error) {
	f.log = append(f.log, "xp")
	if err := f.xp.next(); err != nil {
		return nil, err
	}
	body := f.xpBody
	if body == "" {
		body = `{}`
	}
	return &odyssey.Response{StatusCode: 200, Body: []byte(body)}, nil
}

type deleteCall struct {
	ID    string
	Creds string
}

type fakeSocial struct {
	post    script
	del     script
	posted  []string
	deletes []deleteCall
	nextID  int
}

func (f *fakeSocial) PostTweet(ctx context.Context, text string, creds twitter.Credentials) (*twitter.Tweet, error) {
	if err := f.post.next(); err != nil {
		return nil, err
	}
	f.nextID++
	id := fmt.Sprintf("tweet-%d", f.nextID)
	f.posted = append(f.posted, id)
	return &twitter.Tweet{ID: id, Text: text}, nil
}

func (f *fakeSocial) DeleteTweet(ctx context.Context, tweetID string, creds twitter.Credentials) (bool, error) {
	f.deletes = append(f.deletes, deleteCall{ID: tweetID, Creds: creds.Name})
	if err := f.del.next(); err != nil {
		return false, err
	}
	return true, nil
}

type fixedComposer string

func (c fixedComposer) Generate(ctx context.Context) string {
	return string(c)
}

type fakeChain struct {
	balance  *big.Int
	send     script
	receipt  script
	balances int
	nonces   int
	sent     []wallet.Transfer
}

func (f *fakeChain) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	f.balances++
	return f.balance, nil
}

func (f *fakeChain) PendingNonce(ctx context.Context, address common.Address) (uint64, error) {
	f.nonces++
	return uint64(len(f.sent)), nil
}

func (f *fakeChain) SendTransfer(ctx context.Context, key *wallet.KeyManager, t wallet.Transfer) (common.Hash, error) {
	if err := f.send.next(); err != nil {
		return common.Hash{}, err
	}
	f.sent = append(f.sent, t)
	return common.BigToHash(big.NewInt(int64(len(f.sent)))), nil
}

func (f *fakeChain) WaitForReceipt(ctx context.Context, hash common.Hash, confirmations uint64) (*wallet.TransactionStatus, error) {
	if err := f.receipt.next(); err != nil {
		return nil, err
	}
	return &wallet.TransactionStatus{
		Hash:              hash,
		Status:            1,
		BlockNumber:       big.NewInt(10),
		GasUsed:           21000,
		EffectiveGasPrice: big.NewInt(3000000000),
		State:             wallet.TxStateConfirmed,
	}, nil
}

var errNetwork = errors.New("dial tcp: connection reset by peer")

func newDeps(store tasks.StatusStore, waiter *pausetest.Recorder) tasks.Deps {
	return tasks.Deps{Store: store, Waiter: waiter, Logger: quietLogger()}
}
