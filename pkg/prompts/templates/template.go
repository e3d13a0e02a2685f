package prompts

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"
)

// OpenerInputVariables are filled in when an opener prompt is formatted.
var OpenerInputVariables = []string{"keyword", "maxLength"}

// sectionOrder fixes the numbering of persona sections in the prompt.
var sectionOrder = []string{"Voice", "Audience", "Topics", "Output Constraints"}

// OpenerPromptConfig holds the configuration for tweet opener prompts
type OpenerPromptConfig struct {
	Template string
	Sections map[string]string
}

// NewOpenerPrompt creates the prompt template that asks for one tweet
// opening sentence about {{.keyword}}.
func NewOpenerPrompt(config OpenerPromptConfig) prompts.PromptTemplate {
	if config.Template == "" {
		config.Template = buildDefaultPrompt(config)
	}

	return prompts.NewPromptTemplate(config.Template, OpenerInputVariables)
}

// buildDefaultPrompt constructs the prompt from config sections
func buildDefaultPrompt(config OpenerPromptConfig) string {
	var promptBuilder strings.Builder

	promptBuilder.WriteString("Write one short, upbeat opening sentence for a tweet about {{.keyword}}, a web3 project.\n\n")

	n := 0
	for _, section := range sectionOrder {
		content, exists := config.Sections[section]
		if exists {
			n++
			promptBuilder.WriteString(fmt.Sprintf("%d. %s:\n%s\n\n", n, section, content))
		}
	}

	promptBuilder.WriteString(`Requirements:
- Mention {{.keyword}} by name
- At most {{.maxLength}} characters
- No hashtags, links or quotes

Sentence:`)

	return promptBuilder.String()
}
