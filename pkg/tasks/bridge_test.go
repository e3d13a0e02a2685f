package tasks_test

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lisanmuaddib/quest-runner/pkg/accounts"
	"github.com/lisanmuaddib/quest-runner/pkg/pause/pausetest"
	"github.com/lisanmuaddib/quest-runner/pkg/status"
	"github.com/lisanmuaddib/quest-runner/pkg/tasks"
	"github.com/lisanmuaddib/quest-runner/pkg/wallet"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Bridge executor", func() {
	var (
		store  *countingStore
		waiter *pausetest.Recorder
		chain  *fakeChain
		exec   tasks.Executor
		ctx    context.Context
	)

	required := func() *big.Int {
		return wallet.DefaultBridgeFees().Required(big.NewInt(1e18))
	}

	withKey := func() *accounts.Account {
		a := testAccount(1)
		a.PrivateKey = devKey
		return a
	}

	BeforeEach(func() {
		store = newCountingStore()
		waiter = &pausetest.Recorder{}
		chain = &fakeChain{balance: new(big.Int).Mul(big.NewInt(2), big.NewInt(1e18))}
		ctx = context.Background()
	})

	JustBeforeEach(func() {
		exec = tasks.NewBridgeExecutor(newDeps(store, waiter), tasks.DefaultBridgeConfig(chain))
	})

	It("skips accounts without a private key", func() {
		result := exec.Execute(ctx, testAccount(1))
		Expect(result.Outcome).To(Equal(tasks.OutcomeSkipped))
		Expect(result.Kind).To(Equal(tasks.KindNoPrivateKey))
		Expect(chain.balances).To(BeZero())
	})

	It("sends the fixed transfer and waits for confirmation", func() {
		result := exec.Execute(ctx, withKey())
		Expect(result.Outcome).To(Equal(tasks.OutcomeSuccess))
		Expect(result.TxHash).NotTo(BeEmpty())
		Expect(chain.sent).To(HaveLen(1))

		sent := chain.sent[0]
		Expect(strings.ToLower(sent.To.Hex())).To(Equal(tasks.DefaultBridgeDestination))
		Expect(sent.Value.String()).To(Equal("1000000000000000000"))
		Expect(sent.Fees.GasLimit).To(Equal(uint64(976872)))
	})

	It("submits nothing when the balance cannot cover amount plus gas", func() {
		chain.balance = new(big.Int).Sub(required(), big.NewInt(1))

		result := exec.Execute(ctx, withKey())
		Expect(result.Outcome).To(Equal(tasks.OutcomeFailure))
		Expect(result.Kind).To(Equal(tasks.KindInsufficientBalance))
		Expect(chain.sent).To(BeEmpty())
		Expect(chain.balances).To(Equal(1))
		Expect(waiter.Waits()).To(BeEmpty())
	})

	It("proceeds with exactly the required balance", func() {
		chain.balance = required()

		result := exec.Execute(ctx, withKey())
		Expect(result.Outcome).To(Equal(tasks.OutcomeSuccess))
	})

	It("retries nonce rejections after five seconds", func() {
		chain.send.errs = []error{wallet.NewWalletError(wallet.ErrCodeNonceTooLow, "failed to send transaction", nil, "umi")}

		result := exec.Execute(ctx, withKey())
		Expect(result.Outcome).To(Equal(tasks.OutcomeSuccess))
		Expect(result.Attempts).To(Equal(2))
		Expect(waiter.Durations()).To(Equal([]time.Duration{5 * time.Second}))
	})

	It("stops on insufficient funds reported by the node", func() {
		chain.send.errs = []error{wallet.NewWalletError(wallet.ErrCodeInsufficientFunds, "failed to send transaction", nil, "umi")}

		result := exec.Execute(ctx, withKey())
		Expect(result.Kind).To(Equal(tasks.KindInsufficientFunds))
		Expect(chain.send.calls).To(Equal(1))
	})

	It("counts a reverted transaction as a failed attempt", func() {
		chain.receipt.errs = []error{wallet.NewWalletError(wallet.ErrCodeTransactionReverted, "transaction reverted", nil, "umi")}

		result := exec.Execute(ctx, withKey())
		Expect(result.Outcome).To(Equal(tasks.OutcomeSuccess))
		Expect(chain.sent).To(HaveLen(2))
		Expect(waiter.Durations()).To(Equal([]time.Duration{10 * time.Second}))
	})

	It("keeps waiting on the submitted transaction after a receipt timeout", func() {
		chain.receipt.errs = []error{wallet.NewWalletError(wallet.ErrCodeTimeout, "timeout waiting for receipt", nil, "umi")}

		result := exec.Execute(ctx, withKey())
		Expect(result.Outcome).To(Equal(tasks.OutcomeSuccess))
		Expect(result.Attempts).To(Equal(2))
		Expect(chain.sent).To(HaveLen(1))
		Expect(chain.nonces).To(Equal(1))
		Expect(chain.receipt.calls).To(Equal(2))
		Expect(result.TxHash).To(Equal(common.BigToHash(big.NewInt(1)).Hex()))
	})

	It("never resends while the first transfer stays unconfirmed", func() {
		timeout := wallet.NewWalletError(wallet.ErrCodeTimeout, "timeout waiting for receipt", nil, "umi")
		chain.receipt.errs = []error{timeout, timeout, timeout, timeout, timeout}

		result := exec.Execute(ctx, withKey())
		Expect(result.Outcome).To(Equal(tasks.OutcomeFailure))
		Expect(result.Kind).To(Equal(tasks.KindMaxRetriesExceeded))
		Expect(result.TxHash).NotTo(BeEmpty())
		Expect(chain.sent).To(HaveLen(1))
		Expect(chain.receipt.calls).To(Equal(5))
	})

	It("is not gated by the status store", func() {
		store.Store.MarkDone(1, status.TaskBridge)

		result := exec.Execute(ctx, withKey())
		Expect(result.Outcome).To(Equal(tasks.OutcomeSuccess))
		Expect(store.Marks(status.TaskBridge)).To(BeZero())
	})
})
