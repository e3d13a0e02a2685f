package thoughts

import (
	"context"
	"fmt"
	"strings"

	langchainprompts "github.com/tmc/langchaingo/prompts"

	"github.com/lisanmuaddib/quest-runner/pkg/llm"
	prompts "github.com/lisanmuaddib/quest-runner/pkg/prompts/templates"
)

// maxOpenerLength keeps a generated opener short enough that the filled
// tweet stays readable.
const maxOpenerLength = 120

// LLMOpener asks a language model for a tweet opener.
type LLMOpener struct {
	llm         llm.LLM
	prompt      langchainprompts.PromptTemplate
	temperature float64
}

// OpenerOption customizes an LLMOpener.
type OpenerOption func(*LLMOpener)

// WithPrompt replaces the default opener prompt. The template receives the
// keyword and maxLength variables.
func WithPrompt(prompt langchainprompts.PromptTemplate) OpenerOption {
	return func(o *LLMOpener) {
		o.prompt = prompt
	}
}

// NewLLMOpener creates an OpenerSource backed by model.
func NewLLMOpener(model llm.LLM, opts ...OpenerOption) *LLMOpener {
	o := &LLMOpener{
		llm:         model,
		prompt:      prompts.NewOpenerPrompt(prompts.OpenerPromptConfig{}),
		temperature: 0.9,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Opener implements OpenerSource.
func (o *LLMOpener) Opener(ctx context.Context, keyword string) (string, error) {
	prompt, err := o.prompt.Format(map[string]any{
		"keyword":   keyword,
		"maxLength": maxOpenerLength,
	})
	if err != nil {
		return "", fmt.Errorf("error formatting opener prompt: %w", err)
	}

	text, err := o.llm.Generate(ctx, prompt,
		llm.WithTemperature(o.temperature),
		llm.WithMaxTokens(60),
		llm.WithStopWords("\n"),
	)
	if err != nil {
		return "", fmt.Errorf("error generating opener: %w", err)
	}

	text = strings.Trim(strings.TrimSpace(text), `"`)
	if text == "" || strings.ContainsAny(text, "\n#") || len(text) > maxOpenerLength {
		return "", fmt.Errorf("unusable opener %q", text)
	}
	return text, nil
}
