package tasks

import (
	"fmt"
	"net/http"
	"time"
)

const (
	DefaultRateLimitStep    = 30 * time.Second
	DefaultRateLimitCap     = 5 * time.Minute
	DefaultServerErrorDelay = 60 * time.Second
	DefaultNonceDelay       = 5 * time.Second
)

// Policy is the retry behaviour of one remote operation.
type Policy struct {
	// MaxAttempts is the attempt ceiling.
	MaxAttempts int
	// RetryDelay is waited before every attempt after the first.
	RetryDelay time.Duration
	// RateLimitStep × attempt is waited after a 429, up to RateLimitCap.
	RateLimitStep time.Duration
	RateLimitCap  time.Duration
	// ServerErrorDelay is waited after a 5xx; zero falls back to the backoff.
	ServerErrorDelay time.Duration
	// BackoffStep × attempt is waited after any other retryable error.
	BackoffStep time.Duration
	// FixedBackoff waits BackoffStep regardless of the attempt number.
	FixedBackoff bool
	// NonceDelay is waited after a nonce rejection.
	NonceDelay time.Duration
	// RetryBadRequest keeps retrying plain 400 answers instead of aborting.
	RetryBadRequest bool
	// ForbiddenIsRateLimit treats 403 like 429, for posting actions.
	ForbiddenIsRateLimit bool
}

// Action is what to do after a failed attempt.
type Action int

const (
	// ActionRetry waits Decision.Wait and tries again.
	ActionRetry Action = iota
	// ActionAbort ends the run with Decision.Kind.
	ActionAbort
	// ActionComplete ends the run as a terminal success.
	ActionComplete
	// ActionExhausted ends the run because no attempts remain.
	ActionExhausted
)

func (a Action) String() string {
	switch a {
	case ActionRetry:
		return "retry"
	case ActionAbort:
		return "abort"
	case ActionComplete:
		return "complete"
	case ActionExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Decision is the outcome of Policy.Decide.
type Decision struct {
	Action Action
	Kind   Kind
	Wait   time.Duration
}

// Decide classifies err from attempt (1-based) and picks the next step.
// No wait is scheduled once attempts are exhausted.
func (p Policy) Decide(attempt int, err error) Decision {
	kind := Classify(err)
	if p.ForbiddenIsRateLimit {
		if code, ok := StatusCode(err); ok && code == http.StatusForbidden {
			kind = KindRateLimited
		}
	}

	d := Decision{Action: ActionRetry, Kind: kind}
	switch kind {
	case KindAlreadyCompleted:
		d.Action = ActionComplete
		return d
	case KindInvalidCredential, KindEndpointNotFound, KindInsufficientBalance, KindInsufficientFunds:
		d.Action = ActionAbort
		return d
	case KindBadRequest:
		if !p.RetryBadRequest {
			d.Action = ActionAbort
			return d
		}
		d.Wait = p.backoff(attempt)
	case KindRateLimited:
		d.Wait = p.rateLimitWait(attempt)
	case KindServerError:
		d.Wait = p.ServerErrorDelay
		if d.Wait <= 0 {
			d.Wait = p.backoff(attempt)
		}
	case KindNonceError:
		d.Wait = p.NonceDelay
	default:
		d.Wait = p.backoff(attempt)
	}

	if attempt >= p.MaxAttempts {
		return Decision{Action: ActionExhausted, Kind: KindMaxRetriesExceeded}
	}
	return d
}

func (p Policy) rateLimitWait(attempt int) time.Duration {
	wait := time.Duration(attempt) * p.RateLimitStep
	if p.RateLimitCap > 0 && wait > p.RateLimitCap {
		wait = p.RateLimitCap
	}
	return wait
}

func (p Policy) backoff(attempt int) time.Duration {
	if p.FixedBackoff {
		return p.BackoffStep
	}
	return time.Duration(attempt) * p.BackoffStep
}

func basePolicy(maxAttempts int) Policy {
	return Policy{
		MaxAttempts:      maxAttempts,
		RateLimitStep:    DefaultRateLimitStep,
		RateLimitCap:     DefaultRateLimitCap,
		ServerErrorDelay: DefaultServerErrorDelay,
	}
}

// FaucetPolicy: 2 attempts, 60s between them, plain 400 is fatal.
func FaucetPolicy() Policy {
	p := basePolicy(2)
	p.RetryDelay = 60 * time.Second
	return p
}

// QuestFaucetPolicy matches the faucet.
func QuestFaucetPolicy() Policy {
	return FaucetPolicy()
}

// DailyXPPolicy: 5 attempts with 30s linear backoff; 400 is retried.
func DailyXPPolicy() Policy {
	p := basePolicy(5)
	p.BackoffStep = 30 * time.Second
	p.RetryBadRequest = true
	return p
}

// TweetClaimPolicy: 3 attempts, 30s between them plus 15s linear backoff,
// also after 5xx.
func TweetClaimPolicy() Policy {
	p := basePolicy(3)
	p.RetryDelay = 30 * time.Second
	p.ServerErrorDelay = 0
	p.BackoffStep = 15 * time.Second
	p.RetryBadRequest = true
	return p
}

// TweetSendPolicy: 2 attempts; 403 waits like 429, anything else 15s linear.
func TweetSendPolicy() Policy {
	p := basePolicy(2)
	p.ServerErrorDelay = 0
	p.BackoffStep = 15 * time.Second
	p.RetryBadRequest = true
	p.ForbiddenIsRateLimit = true
	return p
}

// TweetDeletePolicy: 2 attempts with a fixed 15s wait; 403 waits like 429.
func TweetDeletePolicy() Policy {
	p := TweetSendPolicy()
	p.FixedBackoff = true
	return p
}

// BridgePolicy: 5 attempts, 10s linear backoff, 5s after nonce errors.
func BridgePolicy() Policy {
	p := basePolicy(5)
	p.BackoffStep = 10 * time.Second
	p.NonceDelay = DefaultNonceDelay
	return p
}
