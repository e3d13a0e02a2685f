// Package notify sends campaign pass summaries to operators.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/quest-runner/pkg/agent"
	"github.com/lisanmuaddib/quest-runner/pkg/tasks"
)

// maxMessageLength is Telegram's limit for one text message.
const maxMessageLength = 4096

// TelegramConfig configures the Telegram notifier.
type TelegramConfig struct {
	BotToken string
	ChatID   int64
	// APIEndpoint is a format string taking the token and the method name
	APIEndpoint string
	// FailuresOnly suppresses summaries of passes without failures
	FailuresOnly bool
}

// NewTelegramConfig reads TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID and
// TELEGRAM_FAILURES_ONLY.
func NewTelegramConfig() (*TelegramConfig, error) {
	config := &TelegramConfig{
		BotToken:     strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		APIEndpoint:  tgbotapi.APIEndpoint,
		FailuresOnly: os.Getenv("TELEGRAM_FAILURES_ONLY") == "true",
	}
	if chat := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); chat != "" {
		id, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		config.ChatID = id
	}
	return config, config.Validate()
}

// Enabled reports whether a bot token is configured.
func (c *TelegramConfig) Enabled() bool {
	return c.BotToken != ""
}

// Validate requires a chat id whenever a token is set.
func (c *TelegramConfig) Validate() error {
	if c.Enabled() && c.ChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}
	if c.APIEndpoint == "" {
		c.APIEndpoint = tgbotapi.APIEndpoint
	}
	return nil
}

// TelegramNotifier implements agent.Recorder by messaging a chat.
type TelegramNotifier struct {
	bot          *tgbotapi.BotAPI
	chatID       int64
	failuresOnly bool
	logger       *logrus.Logger
}

// NewTelegramNotifier authenticates the bot. client may be nil.
func NewTelegramNotifier(config *TelegramConfig, logger *logrus.Logger, client tgbotapi.HTTPClient) (*TelegramNotifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	bot, err := tgbotapi.NewBotAPIWithClient(config.BotToken, config.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	logger.WithField("bot", bot.Self.UserName).Debug("Telegram notifier ready")
	return &TelegramNotifier{
		bot:          bot,
		chatID:       config.ChatID,
		failuresOnly: config.FailuresOnly,
		logger:       logger,
	}, nil
}

// RecordPass sends the pass summary.
func (n *TelegramNotifier) RecordPass(ctx context.Context, report *agent.PassReport) error {
	if _, failed, _ := report.Counts(); n.failuresOnly && failed == 0 {
		return nil
	}

	msg := tgbotapi.NewMessage(n.chatID, FormatPassSummary(report))
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send Telegram summary: %w", err)
	}
	return nil
}

// FormatPassSummary renders a pass as plain text: totals first, then one
// line per failed task.
func FormatPassSummary(report *agent.PassReport) string {
	succeeded, failed, skipped := report.Counts()

	var b strings.Builder
	fmt.Fprintf(&b, "Quest pass %s (%s)\n", report.RunID.String()[:8], report.Mode)
	fmt.Fprintf(&b, "Accounts: %d, duration %s\n", len(report.Accounts),
		report.FinishedAt.Sub(report.StartedAt).Round(time.Second))
	fmt.Fprintf(&b, "Succeeded %d, failed %d, skipped %d\n", succeeded, failed, skipped)

	for _, account := range report.Accounts {
		for _, result := range account.Results {
			if result.Outcome != tasks.OutcomeFailure {
				continue
			}
			line := fmt.Sprintf("- %s %s: %s", account.Account.Name, result.Task, result.Kind)
			if result.Message != "" {
				line += " (" + truncate(result.Message, 120) + ")"
			}
			b.WriteString(line + "\n")
		}
	}

	return truncate(strings.TrimRight(b.String(), "\n"), maxMessageLength)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
