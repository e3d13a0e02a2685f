package openai

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// ErrNoAPIKey means OPENAI_API_KEY is unset; callers treat the model as disabled.
var ErrNoAPIKey = errors.New("API key is required")

const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.9
	// DefaultMaxTokens fits one opener sentence.
	DefaultMaxTokens = 60
)

type OpenAIConfig struct {
	APIKey string
	// BaseURL points at an OpenAI compatible endpoint; empty uses api.openai.com
	BaseURL     string
	Logger      *logrus.Logger
	Temperature float64
	MaxTokens   int
	Model       string
}

// NewOpenAIConfig reads OPENAI_API_KEY, OPENAI_MODEL, OPENAI_BASE_URL,
// OPENAI_TEMPERATURE and OPENAI_MAX_TOKENS.
func NewOpenAIConfig(logger *logrus.Logger) (*OpenAIConfig, error) {
	config := &OpenAIConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   os.Getenv("OPENAI_MODEL"),
		Logger:  logger,
	}

	if v := os.Getenv("OPENAI_TEMPERATURE"); v != "" {
		temp, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OPENAI_TEMPERATURE: %w", err)
		}
		config.Temperature = temp
	}
	if v := os.Getenv("OPENAI_MAX_TOKENS"); v != "" {
		tokens, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid OPENAI_MAX_TOKENS: %w", err)
		}
		config.MaxTokens = tokens
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks required fields and fills the defaults.
func (c *OpenAIConfig) Validate() error {
	if c.APIKey == "" {
		return ErrNoAPIKey
	}
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", c.Temperature)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max tokens must not be negative")
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	return nil
}
