package thoughts_test

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	langchainprompts "github.com/tmc/langchaingo/prompts"

	"github.com/lisanmuaddib/quest-runner/pkg/llm"
	"github.com/lisanmuaddib/quest-runner/pkg/thoughts"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubOpener struct {
	text string
	err  error
}

func (s stubOpener) Opener(ctx context.Context, keyword string) (string, error) {
	return s.text, s.err
}

type stubLLM struct {
	reply  string
	err    error
	prompt string
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

var _ = Describe("QuestTweetGenerator", func() {
	It("always reaches the minimum length and carries the keyword", func() {
		gen := thoughts.NewQuestTweetGenerator(thoughts.Config{Logger: quietLogger(), Seed: 7})

		for i := 0; i < 500; i++ {
			tweet := gen.Generate(context.Background())
			Expect(thoughts.WordCount(tweet)).To(BeNumerically(">=", 30), tweet)
			Expect(thoughts.ContainsKeyword(tweet, "umi")).To(BeTrue(), tweet)
		}
	})

	It("appends the keyword when the opener lacks it", func() {
		gen := thoughts.NewQuestTweetGenerator(thoughts.Config{
			Logger:   quietLogger(),
			Keyword:  "Odyssey",
			MinWords: 3,
			Opener:   stubOpener{text: "good morning friends"},
		})

		tweet := gen.Generate(context.Background())
		Expect(tweet).To(Equal("good morning friends Odyssey"))
	})

	It("falls back to fixed openers when the source fails", func() {
		gen := thoughts.NewQuestTweetGenerator(thoughts.Config{
			Logger: quietLogger(),
			Opener: stubOpener{err: errors.New("quota exceeded")},
		})

		tweet := gen.Generate(context.Background())
		Expect(thoughts.WordCount(tweet)).To(BeNumerically(">=", 30))
		Expect(strings.Contains(tweet, "Umi")).To(BeTrue())
	})
})

var _ = Describe("LLMOpener", func() {
	It("prompts with the keyword and trims the answer", func() {
		model := &stubLLM{reply: "  \"Umi makes bridging feel effortless!\"\n"}
		opener := thoughts.NewLLMOpener(model)

		text, err := opener.Opener(context.Background(), "Umi")
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("Umi makes bridging feel effortless!"))
		Expect(model.prompt).To(ContainSubstring("about Umi"))
	})

	It("rejects multi-line or hashtag answers", func() {
		opener := thoughts.NewLLMOpener(&stubLLM{reply: "Umi rocks\n#web3"})
		_, err := opener.Opener(context.Background(), "Umi")
		Expect(err).To(HaveOccurred())
	})

	It("accepts a custom prompt", func() {
		model := &stubLLM{reply: "Umi day three."}
		prompt := langchainprompts.NewPromptTemplate("Cheer for {{.keyword}} in {{.maxLength}} chars", []string{"keyword", "maxLength"})

		_, err := thoughts.NewLLMOpener(model, thoughts.WithPrompt(prompt)).Opener(context.Background(), "Umi")
		Expect(err).NotTo(HaveOccurred())
		Expect(model.prompt).To(Equal("Cheer for Umi in 120 chars"))
	})

	It("wraps model failures", func() {
		opener := thoughts.NewLLMOpener(&stubLLM{err: errors.New("timeout")})
		_, err := opener.Opener(context.Background(), "Umi")
		Expect(err).To(MatchError(ContainSubstring("timeout")))
	})
})
