// Package tasks holds the five daily quest executors and the retry policy
// they share.
package tasks

import (
	"github.com/lisanmuaddib/quest-runner/pkg/status"
)

// Outcome is the terminal state of one executor run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	// OutcomeSkipped covers both "already done today" and "nothing to do".
	OutcomeSkipped Outcome = "skipped"
)

// Kind classifies why a run did not simply succeed.
type Kind string

const (
	KindNone                Kind = ""
	KindRateLimited         Kind = "rate_limited"
	KindInvalidCredential   Kind = "invalid_credential"
	KindAlreadyCompleted    Kind = "already_completed"
	KindBadRequest          Kind = "bad_request"
	KindEndpointNotFound    Kind = "endpoint_not_found"
	KindServerError         Kind = "server_error"
	KindNetworkError        Kind = "network_error"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindInsufficientFunds   Kind = "insufficient_funds"
	KindNonceError          Kind = "nonce_error"
	KindMaxRetriesExceeded  Kind = "max_retries_exceeded"
	KindTweetFailed         Kind = "tweet_failed"
	KindNoPrivateKey        Kind = "no_private_key"
)

// Result is what every executor returns.
type Result struct {
	Task     status.Task
	Outcome  Outcome
	Kind     Kind
	Message  string
	Attempts int
	// Payload is the raw success answer, if any.
	Payload []byte
	// TweetID is set by the tweet quest once a tweet was posted.
	TweetID string
	// TxHash is set by the bridge once a transaction was submitted.
	TxHash string
	Err    error
}

// OK reports whether the run ended in success or a skip.
func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess || r.Outcome == OutcomeSkipped
}

func skippedResult(task status.Task, kind Kind, message string) Result {
	return Result{Task: task, Outcome: OutcomeSkipped, Kind: kind, Message: message}
}

func failureResult(task status.Task, kind Kind, attempts int, err error) Result {
	r := Result{Task: task, Outcome: OutcomeFailure, Kind: kind, Attempts: attempts, Err: err}
	if err != nil {
		r.Message = err.Error()
	}
	return r
}
