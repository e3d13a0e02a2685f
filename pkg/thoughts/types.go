// Package thoughts composes the text posted for the tweet quest.
package thoughts

import (
	"context"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultKeyword must appear in every quest tweet
	DefaultKeyword = "Umi"
	// DefaultMinWords is the shortest tweet the quest accepts
	DefaultMinWords = 30
)

// OpenerSource writes the opening sentence of a quest tweet.
type OpenerSource interface {
	Opener(ctx context.Context, keyword string) (string, error)
}

// Config configures a QuestTweetGenerator.
type Config struct {
	Logger   *logrus.Logger
	Keyword  string
	MinWords int
	// Opener is optional; the fixed openers are used when it is nil or fails.
	Opener OpenerSource
	// Seed makes word choice reproducible when non-zero.
	Seed int64
}
