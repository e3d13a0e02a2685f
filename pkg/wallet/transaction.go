package wallet

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
)

// TransactionStatus represents the status of a mined transaction.
type TransactionStatus struct {
	// Hash is the unique transaction identifier
	Hash common.Hash

	// Status indicates transaction success (1) or failure (0)
	Status uint64

	// BlockNumber is the block height where transaction was mined
	BlockNumber *big.Int

	// GasUsed is the actual amount of gas consumed
	GasUsed uint64

	// EffectiveGasPrice is the actual gas price paid
	EffectiveGasPrice *big.Int

	// Confirmations is the number of blocks including the mining block
	Confirmations uint64

	// State tracks the current transaction state
	State TransactionState

	// Timestamp when the status was last updated
	Timestamp time.Time
}

// TransactionState represents the possible states of a transaction
type TransactionState int

const (
	// TxStatePending indicates transaction is waiting to be mined
	TxStatePending TransactionState = iota

	// TxStateConfirmed indicates transaction was successfully mined
	TxStateConfirmed

	// TxStateFailed indicates transaction was mined but reverted
	TxStateFailed
)

const (
	// defaultReceiptTimeout is how long to wait for a receipt
	defaultReceiptTimeout = 5 * time.Minute

	// defaultPollInterval is how often to check for receipt
	defaultPollInterval = 5 * time.Second
)

// Transfer is a plain value transfer with fixed fees.
type Transfer struct {
	To    common.Address
	Value *big.Int
	Nonce uint64
	Fees  FeeParams
}

// SendTransfer signs t with key as an EIP-1559 transaction and submits it.
// Node rejections are returned as a WalletError whose code tells nonce
// problems and insufficient funds apart from other failures.
func (c *Client) SendTransfer(ctx context.Context, key *KeyManager, t Transfer) (common.Hash, error) {
	chainID := c.ChainID()

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     t.Nonce,
		GasTipCap: t.Fees.MaxPriorityFeePerGas,
		GasFeeCap: t.Fees.MaxFeePerGas,
		Gas:       t.Fees.GasLimit,
		To:        &t.To,
		Value:     t.Value,
	})

	signedTx, err := key.SignTx(tx, chainID)
	if err != nil {
		return common.Hash{}, NewWalletError(ErrCodeInvalidPrivateKey, "failed to sign transaction", err, c.config.Name)
	}

	if err := c.backend.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, NewWalletError(classifySendError(err), "failed to send transaction", err, c.config.Name)
	}

	c.log.WithFields(logrus.Fields{
		"network": c.config.Name,
		"from":    key.Address().Hex(),
		"to":      t.To.Hex(),
		"value":   t.Value.String(),
		"nonce":   t.Nonce,
		"tx_hash": signedTx.Hash().Hex(),
	}).Info("Transaction submitted")

	return signedTx.Hash(), nil
}

// WaitForReceipt polls until hash is mined with at least confirmations
// blocks (the mining block counts as one). A reverted transaction returns its
// status together with an ErrCodeTransactionReverted error.
func (c *Client) WaitForReceipt(ctx context.Context, hash common.Hash, confirmations uint64) (*TransactionStatus, error) {
	if confirmations == 0 {
		confirmations = 1
	}

	pollInterval := c.config.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	receiptTimeout := c.config.ReceiptTimeout
	if receiptTimeout <= 0 {
		receiptTimeout = defaultReceiptTimeout
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	timeout := time.NewTimer(receiptTimeout)
	defer timeout.Stop()

	for {
		status, err := c.checkReceipt(ctx, hash, confirmations)
		if status != nil || err != nil {
			return status, err
		}

		select {
		case <-ctx.Done():
			return nil, NewWalletError(ErrCodeTimeout, "context cancelled while waiting for receipt", ctx.Err(), c.config.Name)
		case <-timeout.C:
			return nil, NewWalletError(ErrCodeTimeout, "timeout waiting for receipt", nil, c.config.Name)
		case <-ticker.C:
		}
	}
}

// checkReceipt returns nil, nil while the transaction is pending, not yet
// deep enough, or the node could not answer.
func (c *Client) checkReceipt(ctx context.Context, hash common.Hash, confirmations uint64) (*TransactionStatus, error) {
	receipt, err := c.backend.TransactionReceipt(ctx, hash)
	if err != nil {
		if !errors.Is(err, ethereum.NotFound) {
			c.log.WithError(err).WithField("tx_hash", hash.Hex()).Debug("Receipt lookup failed, will retry")
		}
		return nil, nil
	}

	currentBlock, err := c.backend.BlockNumber(ctx)
	if err != nil {
		c.log.WithError(err).WithField("tx_hash", hash.Hex()).Debug("Block number lookup failed, will retry")
		return nil, nil
	}

	mined := receipt.BlockNumber.Uint64()
	if currentBlock < mined {
		currentBlock = mined
	}
	depth := currentBlock - mined + 1
	if depth < confirmations {
		return nil, nil
	}

	status := &TransactionStatus{
		Hash:              hash,
		Status:            receipt.Status,
		BlockNumber:       receipt.BlockNumber,
		GasUsed:           receipt.GasUsed,
		EffectiveGasPrice: receipt.EffectiveGasPrice,
		Confirmations:     depth,
		State:             TxStateConfirmed,
		Timestamp:         time.Now(),
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		status.State = TxStateFailed
		return status, NewWalletError(ErrCodeTransactionReverted, "transaction reverted", nil, c.config.Name)
	}

	return status, nil
}
