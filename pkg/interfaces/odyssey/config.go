// Package odyssey talks to the Odyssey campaign API and the Umi faucet.
package odyssey

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Default configuration values
const (
	// DefaultFaucetURL funds a wallet with test UMI
	DefaultFaucetURL = "https://faucet.uminetwork.com/api/fundUser"
	// DefaultBaseURL is the root of the quest and player endpoints
	DefaultBaseURL = "https://odyssey.page/api"
	// DefaultOrigin is sent as Origin on quest requests
	DefaultOrigin = "https://odyssey.page"
	// DefaultRequestTimeout bounds a single request, in seconds
	DefaultRequestTimeout = 60
	// DefaultRequestsPerMinute paces calls to the campaign API
	DefaultRequestsPerMinute = 30
	// DefaultTimeZone is the label the daily XP endpoint expects
	DefaultTimeZone = "Asia/Jakarta"
)

// Config holds the campaign API settings.
// Environment variables:
//   - ODYSSEY_FAUCET_URL: faucet endpoint (default: https://faucet.uminetwork.com/api/fundUser)
//   - ODYSSEY_API_BASE_URL: quest API root (default: https://odyssey.page/api)
//   - ODYSSEY_REQUEST_TIMEOUT: request timeout in seconds (default: 60)
//   - ODYSSEY_REQUESTS_PER_MINUTE: request pacing, 0 disables (default: 30)
//   - ODYSSEY_TIME_ZONE: time zone label for daily XP (default: Asia/Jakarta)
type Config struct {
	// FaucetURL is the full faucet fund endpoint
	FaucetURL string
	// BaseURL is the root for quest/check-* and player/daily-xp
	BaseURL string
	// Origin is used for the Origin and Referer headers
	Origin string
	// RequestTimeout is the duration to wait before timing out requests
	RequestTimeout time.Duration
	// RequestsPerMinute limits outgoing requests; zero means unlimited
	RequestsPerMinute int
	// TimeZone is sent with daily XP claims
	TimeZone string
	// Proxies are candidate HTTP proxies; one is chosen per client
	Proxies []string
	// Logger is the configured logrus logger instance
	Logger *logrus.Logger
}

// NewConfig creates a Config from the environment, loading .env when present.
func NewConfig(logger *logrus.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		FaucetURL:         getEnvOrDefault("ODYSSEY_FAUCET_URL", DefaultFaucetURL),
		BaseURL:           getEnvOrDefault("ODYSSEY_API_BASE_URL", DefaultBaseURL),
		Origin:            DefaultOrigin,
		RequestTimeout:    time.Duration(getIntOrDefault("ODYSSEY_REQUEST_TIMEOUT", DefaultRequestTimeout, logger)) * time.Second,
		RequestsPerMinute: getIntOrDefault("ODYSSEY_REQUESTS_PER_MINUTE", DefaultRequestsPerMinute, logger),
		TimeZone:          getEnvOrDefault("ODYSSEY_TIME_ZONE", DefaultTimeZone),
		Logger:            logger,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"faucet_url":          config.FaucetURL,
		"base_url":            config.BaseURL,
		"request_timeout":     config.RequestTimeout.String(),
		"requests_per_minute": config.RequestsPerMinute,
	}).Debug("Odyssey config initialized")

	return config, nil
}

// Validate fills defaults and rejects unusable settings.
func (c *Config) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if c.RequestTimeout < time.Second {
		return fmt.Errorf("request timeout must be at least 1 second, got %v", c.RequestTimeout)
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests per minute cannot be negative, got %d", c.RequestsPerMinute)
	}
	if c.FaucetURL == "" {
		c.FaucetURL = DefaultFaucetURL
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Origin == "" {
		c.Origin = DefaultOrigin
	}
	if c.TimeZone == "" {
		c.TimeZone = DefaultTimeZone
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int, logger *logrus.Logger) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"key":     key,
				"value":   raw,
				"default": defaultValue,
			}).Warn("Invalid integer setting, using default")
		}
		return defaultValue
	}
	return v
}
