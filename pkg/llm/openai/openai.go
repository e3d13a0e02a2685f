// Package openai adapts a langchaingo OpenAI model to llm.LLM.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/lisanmuaddib/quest-runner/pkg/llm"
)

// Client implements llm.LLM on a langchaingo model.
type Client struct {
	logger *logrus.Logger
	model  llms.Model
	config *OpenAIConfig
}

func NewClient(config *OpenAIConfig) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	opts := []openai.Option{
		openai.WithToken(config.APIKey),
		openai.WithModel(config.Model),
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI: %w", err)
	}

	return &Client{
		logger: config.Logger,
		model:  model,
		config: config,
	}, nil
}

// NewClientWithModel wraps an already constructed langchaingo model.
func NewClientWithModel(config *OpenAIConfig, model llms.Model) *Client {
	return &Client{logger: config.Logger, model: model, config: config}
}

func (c *Client) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
		Model:       c.config.Model,
	}

	for _, opt := range opts {
		opt(options)
	}

	c.logger.WithFields(logrus.Fields{
		"temperature": options.Temperature,
		"maxTokens":   options.MaxTokens,
		"model":       options.Model,
	}).Debug("Generating completion")

	callOpts := []llms.CallOption{
		llms.WithTemperature(options.Temperature),
		llms.WithMaxTokens(options.MaxTokens),
		llms.WithModel(options.Model),
	}
	if len(options.StopWords) > 0 {
		callOpts = append(callOpts, llms.WithStopWords(options.StopWords))
	}

	completion, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, callOpts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}

	return strings.TrimSpace(completion), nil
}
