// Package llm is the small text generation surface the tweet composer
// needs: one prompt in, one short completion out.
package llm

import (
	"context"
)

// LLM generates a completion for a single prompt.
type LLM interface {
	Generate(ctx context.Context, prompt string, opts ...Option) (string, error)
}

// Option adjusts one Generate call.
type Option func(*Options)

// Options are the per-call overrides. Zero values keep the client defaults.
type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string
	StopWords   []string
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(tokens int) Option {
	return func(o *Options) {
		o.MaxTokens = tokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithStopWords ends the completion at the first of words.
func WithStopWords(words ...string) Option {
	return func(o *Options) {
		o.StopWords = append(o.StopWords, words...)
	}
}
