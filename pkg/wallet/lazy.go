package wallet

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// DialFunc opens a Client.
type DialFunc func(ctx context.Context) (*Client, error)

// LazyClient dials on first use and again after a failed dial, so an
// unreachable node surfaces as an error from the call that needed it.
type LazyClient struct {
	dial DialFunc

	mu     sync.Mutex
	client *Client
}

// NewLazyClient dials config with NewClient when first needed.
func NewLazyClient(log *logrus.Logger, config NetworkConfig) *LazyClient {
	return NewLazyClientWithDialer(func(ctx context.Context) (*Client, error) {
		return NewClient(ctx, log, config)
	})
}

func NewLazyClientWithDialer(dial DialFunc) *LazyClient {
	return &LazyClient{dial: dial}
}

func (l *LazyClient) get(ctx context.Context) (*Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.client != nil {
		return l.client, nil
	}
	client, err := l.dial(ctx)
	if err != nil {
		return nil, err
	}
	l.client = client
	return client, nil
}

func (l *LazyClient) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	c, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return c.GetBalance(ctx, address)
}

func (l *LazyClient) PendingNonce(ctx context.Context, address common.Address) (uint64, error) {
	c, err := l.get(ctx)
	if err != nil {
		return 0, err
	}
	return c.PendingNonce(ctx, address)
}

func (l *LazyClient) SendTransfer(ctx context.Context, key *KeyManager, t Transfer) (common.Hash, error) {
	c, err := l.get(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	return c.SendTransfer(ctx, key, t)
}

func (l *LazyClient) WaitForReceipt(ctx context.Context, hash common.Hash, confirmations uint64) (*TransactionStatus, error) {
	c, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return c.WaitForReceipt(ctx, hash, confirmations)
}

// Close closes the connection if one was opened.
func (l *LazyClient) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client != nil {
		l.client.Close()
		l.client = nil
	}
}
