package tasks

import (
	"errors"
	"net/http"
	"strings"

	"github.com/lisanmuaddib/quest-runner/pkg/wallet"
)

// statusCoder is implemented by the HTTP collaborators' error types.
type statusCoder interface {
	HTTPStatus() int
}

// completedMarkers identify a 400 that means the quest is already done.
var completedMarkers = []string{"already", "completed", "sudah"}

// errInsufficientBalance stops the bridge before anything is sent.
var errInsufficientBalance = errors.New("insufficient balance for transfer and gas")

// StatusCode extracts the HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus(), true
	}
	return 0, false
}

// Classify maps a collaborator error onto the failure taxonomy.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, errInsufficientBalance) {
		return KindInsufficientBalance
	}

	if code, ok := StatusCode(err); ok {
		switch {
		case code == http.StatusTooManyRequests:
			return KindRateLimited
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			return KindInvalidCredential
		case code == http.StatusBadRequest:
			if isAlreadyCompleted(err) {
				return KindAlreadyCompleted
			}
			return KindBadRequest
		case code == http.StatusNotFound:
			return KindEndpointNotFound
		case code >= 500:
			return KindServerError
		default:
			return KindBadRequest
		}
	}

	switch {
	case wallet.IsWalletError(err, wallet.ErrCodeInsufficientFunds):
		return KindInsufficientFunds
	case wallet.IsWalletError(err, wallet.ErrCodeNonceTooLow):
		return KindNonceError
	}

	return KindNetworkError
}

func isAlreadyCompleted(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range completedMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
