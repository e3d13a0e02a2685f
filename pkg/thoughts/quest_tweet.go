package thoughts

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var openers = []string{
	"Hello everyone, have you heard about Umi?",
	"Hey crypto friends, check out Umi!",
	"What's up everyone, Umi is amazing!",
	"Greetings to all Umi enthusiasts!",
	"Hi there, Umi is the future of web3!",
	"Hello community, Umi is revolutionizing crypto!",
	"Hey everyone, Umi is building something special!",
	"What's good everyone, Umi ecosystem is growing!",
}

var fillers = []string{
	"hello", "hey", "hi", "what's up", "greetings", "howdy",
	"amazing", "awesome", "fantastic", "great", "wonderful",
	"community", "ecosystem", "project", "platform", "network",
	"crypto", "blockchain", "web3", "defi", "nft",
	"future", "innovation", "technology", "digital", "revolution",
	"excited", "happy", "thrilled", "pumped", "enthusiastic",
	"building", "creating", "developing", "growing", "expanding",
	"opportunity", "potential", "vision", "mission", "journey",
	"together", "collaboration", "partnership", "alliance", "support",
}

// QuestTweetGenerator builds random tweets that satisfy the tweet quest:
// at least MinWords words and the keyword somewhere in the text.
type QuestTweetGenerator struct {
	logger   *logrus.Logger
	keyword  string
	minWords int
	opener   OpenerSource

	mu  sync.Mutex
	rng *rand.Rand
}

// NewQuestTweetGenerator creates a generator from config.
func NewQuestTweetGenerator(config Config) *QuestTweetGenerator {
	if config.Keyword == "" {
		config.Keyword = DefaultKeyword
	}
	if config.MinWords <= 0 {
		config.MinWords = DefaultMinWords
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &QuestTweetGenerator{
		logger:   config.Logger,
		keyword:  config.Keyword,
		minWords: config.MinWords,
		opener:   config.Opener,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Generate returns a new tweet. It never fails: a failing opener source
// falls back to the fixed openers.
func (g *QuestTweetGenerator) Generate(ctx context.Context) string {
	opening := g.pickOpener(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()

	var b strings.Builder
	b.WriteString(opening)
	words := len(strings.Fields(opening))
	for words < g.minWords {
		filler := fillers[g.rng.Intn(len(fillers))]
		b.WriteByte(' ')
		b.WriteString(filler)
		words += len(strings.Fields(filler))
	}

	tweet := b.String()
	if !ContainsKeyword(tweet, g.keyword) {
		tweet += " " + g.keyword
	}
	return tweet
}

func (g *QuestTweetGenerator) pickOpener(ctx context.Context) string {
	if g.opener != nil {
		opening, err := g.opener.Opener(ctx, g.keyword)
		if err == nil && opening != "" {
			return opening
		}
		g.logger.WithError(err).Warn("Opener source failed, using a fixed opener")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return openers[g.rng.Intn(len(openers))]
}

// ContainsKeyword reports whether keyword occurs in text, ignoring case.
func ContainsKeyword(text, keyword string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(keyword))
}

// WordCount counts whitespace separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
