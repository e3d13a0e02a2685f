// Package wallet provides the EVM chain access used by the bridge transfer:
// balance and nonce lookups, EIP-1559 transfers and receipt waiting.
package wallet

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for various wallet operations
const (
	// ErrCodeInvalidAddress indicates an invalid blockchain address format
	ErrCodeInvalidAddress = "INVALID_ADDRESS"
	// ErrCodeInvalidPrivateKey indicates an invalid or malformed private key
	ErrCodeInvalidPrivateKey = "INVALID_PRIVATE_KEY"
	// ErrCodeTransactionFailed indicates a transaction failed to execute
	ErrCodeTransactionFailed = "TRANSACTION_FAILED"
	// ErrCodeTransactionReverted indicates a mined transaction with status 0
	ErrCodeTransactionReverted = "TRANSACTION_REVERTED"
	// ErrCodeNonceTooLow indicates the node rejected the transaction nonce
	ErrCodeNonceTooLow = "NONCE_TOO_LOW"
	// ErrCodeInsufficientFunds indicates insufficient balance for transaction
	ErrCodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	// ErrCodeRPCError indicates an RPC connection or call failed
	ErrCodeRPCError = "RPC_ERROR"
	// ErrCodeTimeout indicates operation timed out
	ErrCodeTimeout = "TIMEOUT"
	// ErrCodeChainMismatch indicates chain ID mismatch
	ErrCodeChainMismatch = "CHAIN_MISMATCH"
)

// WalletError represents a wallet-specific error with additional context
// about the error type, message, underlying error and network.
type WalletError struct {
	Code    string // Error code identifying the type of error
	Message string // Human readable error message
	Err     error  // Underlying error if any
	Network string // Network where the error occurred
}

// Error implements the error interface for WalletError.
func (e *WalletError) Error() string {
	if e.Network != "" {
		return fmt.Sprintf("[%s] %s on network %s: %v", e.Code, e.Message, e.Network, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
}

// Unwrap returns the underlying error.
func (e *WalletError) Unwrap() error {
	return e.Err
}

// NewWalletError creates a new WalletError with the given parameters.
func NewWalletError(code string, message string, err error, network string) *WalletError {
	return &WalletError{
		Code:    code,
		Message: message,
		Err:     err,
		Network: network,
	}
}

// IsWalletError reports whether err wraps a WalletError with the given code.
func IsWalletError(err error, code string) bool {
	var e *WalletError
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// classifySendError maps a node's rejection text onto a wallet error code.
// Nodes only report these conditions as JSON-RPC error strings.
func classifySendError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "nonce too low"),
		strings.Contains(msg, "nonce too high"),
		strings.Contains(msg, "invalid nonce"),
		strings.Contains(msg, "replacement transaction underpriced"),
		strings.Contains(msg, "already known"):
		return ErrCodeNonceTooLow
	case strings.Contains(msg, "insufficient funds"):
		return ErrCodeInsufficientFunds
	default:
		return ErrCodeTransactionFailed
	}
}
