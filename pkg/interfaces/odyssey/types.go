package odyssey

import "encoding/json"

// Quest identifiers on the campaign API.
const (
	QuestFaucet = 10
	QuestTweet  = 9
)

// FundRequest is the faucet payload.
type FundRequest struct {
	WalletAddress string `json:"walletAddress"`
	Amount        int    `json:"amount"`
}

// QuestCheckRequest asks the campaign to verify a quest for a wallet.
type QuestCheckRequest struct {
	QuestID       int    `json:"questId"`
	WalletAddress string `json:"walletAddress"`
}

// DailyXPRequest is the daily check-in payload.
type DailyXPRequest struct {
	WalletAddress string `json:"walletAddress"`
	TimeZone      string `json:"timeZone,omitempty"`
}

type legacyDailyXPRequest struct {
	WalletAddress string `json:"walletAddress"`
	TimeZone      string `json:"timezone"`
}

// StreakData is the streak block of a check-in answer.
type StreakData struct {
	CurrentStreak *int `json:"currentStreak"`
	XPEarned      *int `json:"xpEarned"`
	NewLevel      *int `json:"newLevel"`
}

// DailyXPResponse holds the informational fields of a check-in answer.
// Every field is optional; xpEarned and newLevel have been seen both inside
// streakData and at the top level.
type DailyXPResponse struct {
	StreakData *StreakData `json:"streakData"`
	XPEarned   *int        `json:"xpEarned"`
	NewLevel   *int        `json:"newLevel"`
}

// Telemetry merges the streak block with the top-level fields.
func (r *DailyXPResponse) Telemetry() StreakData {
	var out StreakData
	if r.StreakData != nil {
		out = *r.StreakData
	}
	if out.XPEarned == nil {
		out.XPEarned = r.XPEarned
	}
	if out.NewLevel == nil {
		out.NewLevel = r.NewLevel
	}
	return out
}

// Response is a successful answer: the status code and raw JSON body.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// errorBody picks the message the API reports on failure.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
