package twitter

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the Twitter API v2 root
	DefaultBaseURL = "https://api.twitter.com/2"
	// DefaultRequestTimeout bounds a single API call
	DefaultRequestTimeout = 30 * time.Second
)

type TwitterConfig struct {
	// API Endpoints
	BaseURL       string
	TweetEndpoint string

	// RequestTimeout applies to every signed request
	RequestTimeout time.Duration

	// ProxyURL routes API traffic through an HTTP proxy when set
	ProxyURL string

	// General Config
	Logger *logrus.Logger
}

func NewTwitterConfig() (*TwitterConfig, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	timeoutSeconds, _ := strconv.Atoi(getEnvOrDefault("TWITTER_REQUEST_TIMEOUT", "30"))

	config := &TwitterConfig{
		BaseURL:        getEnvOrDefault("TWITTER_API_BASE_URL", DefaultBaseURL),
		TweetEndpoint:  "/tweets",
		RequestTimeout: time.Duration(timeoutSeconds) * time.Second,
		Logger: func() *logrus.Logger {
			log := logrus.New()
			if level := os.Getenv("LOG_LEVEL"); level != "" {
				if parsedLevel, err := logrus.ParseLevel(level); err == nil {
					log.SetLevel(parsedLevel)
				}
			}
			return log
		}(),
	}

	config.Logger.WithFields(logrus.Fields{
		"base_url":        config.BaseURL,
		"request_timeout": config.RequestTimeout.String(),
	}).Debug("Twitter config initialized")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *TwitterConfig) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}

	if c.RequestTimeout < time.Second {
		return fmt.Errorf("request timeout must be at least 1 second, got %v", c.RequestTimeout)
	}

	// Set default endpoints if not provided
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.TweetEndpoint == "" {
		c.TweetEndpoint = "/tweets"
	}

	c.Logger.Debug("Twitter configuration validation completed successfully")
	return nil
}

// Helper function to get environment variable with default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
