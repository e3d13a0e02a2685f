package wallet

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

// Backend is the subset of ethclient.Client the wallet uses.
type Backend interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	Close()
}

// Client is a connection to one EVM network. Signing keys are supplied per
// call so one client serves every account.
type Client struct {
	backend Backend
	config  NetworkConfig
	log     *logrus.Logger
}

// NewClient dials config.RPCURL, retrying per config, and checks the chain id
// the node reports.
func NewClient(ctx context.Context, log *logrus.Logger, config NetworkConfig) (*Client, error) {
	c := &Client{config: config, log: log}

	ethClient, err := c.dialWithRetry(ctx)
	if err != nil {
		return nil, NewWalletError(ErrCodeRPCError, "failed to connect to network", err, config.Name)
	}
	c.backend = ethClient

	chainID, err := ethClient.ChainID(ctx)
	if err != nil {
		ethClient.Close()
		return nil, NewWalletError(ErrCodeRPCError, "failed to get chain ID", err, config.Name)
	}
	if config.ChainID != 0 && chainID.Int64() != config.ChainID {
		ethClient.Close()
		return nil, NewWalletError(ErrCodeChainMismatch,
			fmt.Sprintf("expected chain %d, node reports %s", config.ChainID, chainID), nil, config.Name)
	}

	return c, nil
}

// NewClientWithBackend wraps an existing backend without dialing.
func NewClientWithBackend(log *logrus.Logger, config NetworkConfig, backend Backend) *Client {
	return &Client{backend: backend, config: config, log: log}
}

// ChainID is the configured chain id.
func (c *Client) ChainID() *big.Int {
	return big.NewInt(c.config.ChainID)
}

// GetBalance retrieves the native token balance for an address.
func (c *Client) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	balance, err := c.backend.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, NewWalletError(ErrCodeRPCError, "failed to get balance", err, c.config.Name)
	}

	c.log.WithFields(logrus.Fields{
		"network": c.config.Name,
		"address": address.Hex(),
		"balance": balance.String(),
	}).Debug("Retrieved balance")

	return balance, nil
}

// PendingNonce returns the next nonce for address including pending transactions.
func (c *Client) PendingNonce(ctx context.Context, address common.Address) (uint64, error) {
	nonce, err := c.backend.PendingNonceAt(ctx, address)
	if err != nil {
		return 0, NewWalletError(ErrCodeRPCError, "failed to get nonce", err, c.config.Name)
	}
	return nonce, nil
}

// dialWithRetry attempts to connect to the network with retry mechanism.
func (c *Client) dialWithRetry(ctx context.Context) (*ethclient.Client, error) {
	var client *ethclient.Client
	var err error

	for i := 0; i <= c.config.MaxRetries; i++ {
		client, err = ethclient.DialContext(ctx, c.config.RPCURL)
		if err == nil {
			return client, nil
		}

		if i < c.config.MaxRetries {
			c.log.WithFields(logrus.Fields{
				"network": c.config.Name,
				"attempt": i + 1,
				"error":   err,
			}).Debug("Retrying network connection")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %w", c.config.MaxRetries+1, err)
}

// Close closes the network connection.
func (c *Client) Close() {
	if c.backend != nil {
		c.backend.Close()
		c.log.WithField("network", c.config.Name).Debug("Closed network connection")
	}
}
