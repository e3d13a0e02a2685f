// Package config gathers the process level settings of the quest runner.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	"github.com/lisanmuaddib/quest-runner/pkg/status"
	"github.com/lisanmuaddib/quest-runner/pkg/tasks"
	"github.com/lisanmuaddib/quest-runner/pkg/thoughts"
	"github.com/lisanmuaddib/quest-runner/pkg/wallet"
)

// Config holds input file locations and the settings no single client owns.
type Config struct {
	AccountsFile string
	TwitterFile  string
	ProxyFile    string

	// TimeZone decides when the daily status rolls over
	TimeZone string

	LogLevel  string
	LogFormat string

	RPCURL            string
	ChainID           int64
	BridgeDestination string

	TweetKeyword string

	location *time.Location
}

// Load reads the configuration from the environment, loading .env when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	network := wallet.DefaultUmiNetwork()
	chainID, err := strconv.ParseInt(getEnvOrDefault("BRIDGE_CHAIN_ID", strconv.FormatInt(network.ChainID, 10)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid BRIDGE_CHAIN_ID: %w", err)
	}

	config := &Config{
		AccountsFile:      getEnvOrDefault("ACCOUNTS_FILE", "accounts.txt"),
		TwitterFile:       getEnvOrDefault("TWITTER_FILE", "twitter.txt"),
		ProxyFile:         getEnvOrDefault("PROXY_FILE", "proxy.txt"),
		TimeZone:          getEnvOrDefault("QUEST_TIME_ZONE", status.DefaultTimeZone),
		LogLevel:          os.Getenv("LOG_LEVEL"),
		LogFormat:         os.Getenv("LOG_FORMAT"),
		RPCURL:            getEnvOrDefault("BRIDGE_RPC_URL", network.RPCURL),
		ChainID:           chainID,
		BridgeDestination: getEnvOrDefault("BRIDGE_DESTINATION", tasks.DefaultBridgeDestination),
		TweetKeyword:      getEnvOrDefault("QUEST_TWEET_KEYWORD", thoughts.DefaultKeyword),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the settings and resolves the time zone.
func (c *Config) Validate() error {
	if c.AccountsFile == "" {
		return fmt.Errorf("accounts file is required")
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	c.location = loc

	if c.RPCURL == "" {
		return fmt.Errorf("bridge RPC URL is required")
	}
	if c.ChainID <= 0 {
		return fmt.Errorf("bridge chain id must be positive, got %d", c.ChainID)
	}
	if err := wallet.ValidateAddress(c.BridgeDestination); err != nil {
		return fmt.Errorf("invalid bridge destination: %w", err)
	}
	return nil
}

// Location is the resolved TimeZone. Validate must have succeeded.
func (c *Config) Location() *time.Location {
	return c.location
}

// Network returns the bridge network settings.
func (c *Config) Network() wallet.NetworkConfig {
	network := wallet.DefaultUmiNetwork()
	network.RPCURL = c.RPCURL
	network.ChainID = c.ChainID
	return network
}

// Destination returns the bridge destination address.
func (c *Config) Destination() common.Address {
	return common.HexToAddress(c.BridgeDestination)
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
