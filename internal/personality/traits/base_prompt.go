package traits

import (
	langchainprompts "github.com/tmc/langchaingo/prompts"

	prompts "github.com/lisanmuaddib/quest-runner/pkg/prompts/templates"
)

// QuestVoiceSections describe how quest tweets should sound
var QuestVoiceSections = map[string]string{
	"Voice": `   - You're an early community member who tests new chains for fun
   - Curious and upbeat, never salesy
   - Plain words, at most one emoji`,

	"Audience": `   - Other testers and builders following the campaign
   - People who skim, so the point comes first`,

	"Topics": `   - Trying the faucet and bridge on the devnet
   - Daily progress, streaks and small wins
   - What makes moving value across chains easier`,

	"Output Constraints": `   - A single sentence
   - No price talk, no financial advice
   - No mentions of other accounts`,
}

// NewQuestOpenerPrompt creates the opener prompt with the quest voice
func NewQuestOpenerPrompt() langchainprompts.PromptTemplate {
	return prompts.NewOpenerPrompt(prompts.OpenerPromptConfig{
		Sections: QuestVoiceSections,
	})
}
