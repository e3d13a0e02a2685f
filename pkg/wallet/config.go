package wallet

import (
	"time"
)

// NetworkConfig holds network-specific configuration parameters for blockchain interactions.
type NetworkConfig struct {
	// Name labels the network in logs and errors
	Name string

	// RPCURL is the HTTP(S) endpoint for connecting to the network
	RPCURL string

	// ChainID is the unique identifier for the blockchain network
	ChainID int64

	// MaxRetries specifies how many times to retry the initial dial
	MaxRetries int

	// RetryDelay is the duration to wait between dial attempts
	RetryDelay time.Duration

	// PollInterval is how often a pending receipt is checked
	PollInterval time.Duration

	// ReceiptTimeout bounds a single confirmation wait
	ReceiptTimeout time.Duration
}

// DefaultUmiNetwork returns the settings for the Umi devnet the bridge
// transfer is sent on.
func DefaultUmiNetwork() NetworkConfig {
	return NetworkConfig{
		Name:           "umi",
		RPCURL:         "https://ethereum.uminetwork.com",
		ChainID:        1337,
		MaxRetries:     3,
		RetryDelay:     time.Second,
		PollInterval:   2 * time.Second,
		ReceiptTimeout: 5 * time.Minute,
	}
}
