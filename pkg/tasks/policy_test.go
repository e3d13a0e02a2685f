package tasks_test

import (
	"errors"
	"fmt"
	"time"

	"github.com/lisanmuaddib/quest-runner/pkg/interfaces/twitter"
	"github.com/lisanmuaddib/quest-runner/pkg/tasks"
	"github.com/lisanmuaddib/quest-runner/pkg/wallet"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Classify", func() {
	DescribeTable("maps collaborator errors",
		func(err error, kind tasks.Kind) {
			Expect(tasks.Classify(err)).To(Equal(kind))
		},
		Entry("nil", nil, tasks.KindNone),
		Entry("429", apiErr(429, "slow down"), tasks.KindRateLimited),
		Entry("401", apiErr(401, "unauthorized"), tasks.KindInvalidCredential),
		Entry("403", apiErr(403, "forbidden"), tasks.KindInvalidCredential),
		Entry("400 already", apiErr(400, "Already claimed today"), tasks.KindAlreadyCompleted),
		Entry("400 completed", apiErr(400, "Quest COMPLETED"), tasks.KindAlreadyCompleted),
		Entry("400 sudah", apiErr(400, "Sudah diklaim"), tasks.KindAlreadyCompleted),
		Entry("400 other", apiErr(400, "wallet not eligible"), tasks.KindBadRequest),
		Entry("404", apiErr(404, "not found"), tasks.KindEndpointNotFound),
		Entry("502", apiErr(502, "bad gateway"), tasks.KindServerError),
		Entry("twitter 429", &twitter.APIError{StatusCode: 429}, tasks.KindRateLimited),
		Entry("wrapped status", fmt.Errorf("claim: %w", apiErr(503, "")), tasks.KindServerError),
		Entry("plain network", errors.New("connection refused"), tasks.KindNetworkError),
		Entry("nonce", wallet.NewWalletError(wallet.ErrCodeNonceTooLow, "send", nil, "umi"), tasks.KindNonceError),
		Entry("funds", wallet.NewWalletError(wallet.ErrCodeInsufficientFunds, "send", nil, "umi"), tasks.KindInsufficientFunds),
		Entry("reverted", wallet.NewWalletError(wallet.ErrCodeTransactionReverted, "receipt", nil, "umi"), tasks.KindNetworkError),
	)
})

var _ = Describe("Policy", func() {
	It("grows rate limit waits linearly up to the cap", func() {
		p := tasks.Policy{MaxAttempts: 20, RateLimitStep: 30 * time.Second, RateLimitCap: 5 * time.Minute}

		Expect(p.Decide(1, apiErr(429, "")).Wait).To(Equal(30 * time.Second))
		Expect(p.Decide(3, apiErr(429, "")).Wait).To(Equal(90 * time.Second))
		Expect(p.Decide(10, apiErr(429, "")).Wait).To(Equal(5 * time.Minute))
		Expect(p.Decide(15, apiErr(429, "")).Wait).To(Equal(5 * time.Minute))
	})

	It("treats 403 as rate limiting only on posting paths", func() {
		Expect(tasks.TweetSendPolicy().Decide(1, &twitter.APIError{StatusCode: 403})).To(Equal(tasks.Decision{
			Action: tasks.ActionRetry, Kind: tasks.KindRateLimited, Wait: 30 * time.Second,
		}))
		Expect(tasks.TweetClaimPolicy().Decide(1, apiErr(403, "")).Action).To(Equal(tasks.ActionAbort))
	})

	It("completes on already-completed answers even on the last attempt", func() {
		d := tasks.FaucetPolicy().Decide(2, apiErr(400, "already claimed"))
		Expect(d.Action).To(Equal(tasks.ActionComplete))
		Expect(d.Kind).To(Equal(tasks.KindAlreadyCompleted))
	})

	It("aborts plain 400 for faucets and retries it for daily XP", func() {
		Expect(tasks.FaucetPolicy().Decide(1, apiErr(400, "nope")).Action).To(Equal(tasks.ActionAbort))
		Expect(tasks.QuestFaucetPolicy().Decide(1, apiErr(400, "nope")).Action).To(Equal(tasks.ActionAbort))

		d := tasks.DailyXPPolicy().Decide(2, apiErr(400, "nope"))
		Expect(d.Action).To(Equal(tasks.ActionRetry))
		Expect(d.Wait).To(Equal(60 * time.Second))
	})

	It("waits the server error delay after 5xx", func() {
		Expect(tasks.DailyXPPolicy().Decide(1, apiErr(500, "")).Wait).To(Equal(60 * time.Second))
	})

	It("backs off network errors per task", func() {
		Expect(tasks.TweetClaimPolicy().Decide(2, errNetwork).Wait).To(Equal(30 * time.Second))
		Expect(tasks.BridgePolicy().Decide(3, errNetwork).Wait).To(Equal(30 * time.Second))
		Expect(tasks.DailyXPPolicy().Decide(1, errNetwork).Wait).To(Equal(30 * time.Second))
		Expect(tasks.TweetDeletePolicy().Decide(1, errNetwork).Wait).To(Equal(15 * time.Second))
	})

	It("retries nonce errors after the short fixed delay", func() {
		d := tasks.BridgePolicy().Decide(4, wallet.NewWalletError(wallet.ErrCodeNonceTooLow, "send", nil, ""))
		Expect(d.Action).To(Equal(tasks.ActionRetry))
		Expect(d.Wait).To(Equal(5 * time.Second))
	})

	It("reports exhaustion without a final wait", func() {
		d := tasks.FaucetPolicy().Decide(2, apiErr(429, ""))
		Expect(d).To(Equal(tasks.Decision{Action: tasks.ActionExhausted, Kind: tasks.KindMaxRetriesExceeded}))
	})

	It("has the documented attempt ceilings", func() {
		Expect(tasks.FaucetPolicy().MaxAttempts).To(Equal(2))
		Expect(tasks.QuestFaucetPolicy().MaxAttempts).To(Equal(2))
		Expect(tasks.DailyXPPolicy().MaxAttempts).To(Equal(5))
		Expect(tasks.TweetClaimPolicy().MaxAttempts).To(Equal(3))
		Expect(tasks.TweetSendPolicy().MaxAttempts).To(Equal(2))
		Expect(tasks.TweetDeletePolicy().MaxAttempts).To(Equal(2))
		Expect(tasks.BridgePolicy().MaxAttempts).To(Equal(5))
	})
})
