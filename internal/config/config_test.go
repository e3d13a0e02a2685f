package config_test

import (
	"os"
	"strings"

	"github.com/lisanmuaddib/quest-runner/internal/config"
	"github.com/lisanmuaddib/quest-runner/pkg/tasks"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	vars := []string{
		"ACCOUNTS_FILE", "TWITTER_FILE", "PROXY_FILE", "QUEST_TIME_ZONE",
		"BRIDGE_RPC_URL", "BRIDGE_CHAIN_ID", "BRIDGE_DESTINATION", "QUEST_TWEET_KEYWORD",
	}
	saved := map[string]string{}

	BeforeEach(func() {
		for _, v := range vars {
			saved[v] = os.Getenv(v)
			os.Unsetenv(v)
		}
	})

	AfterEach(func() {
		for _, v := range vars {
			if saved[v] == "" {
				os.Unsetenv(v)
			} else {
				os.Setenv(v, saved[v])
			}
		}
	})

	It("falls back to the defaults", func() {
		cfg, err := config.Load()
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.AccountsFile).To(Equal("accounts.txt"))
		Expect(cfg.TwitterFile).To(Equal("twitter.txt"))
		Expect(cfg.ProxyFile).To(Equal("proxy.txt"))
		Expect(cfg.Location().String()).To(Equal("Asia/Jakarta"))
		Expect(cfg.ChainID).To(Equal(int64(1337)))
		Expect(cfg.TweetKeyword).To(Equal("Umi"))
		Expect(strings.ToLower(cfg.Destination().Hex())).To(Equal(tasks.DefaultBridgeDestination))
	})

	It("applies overrides to the bridge network", func() {
		os.Setenv("BRIDGE_RPC_URL", "http://localhost:8545")
		os.Setenv("BRIDGE_CHAIN_ID", "31337")

		cfg, err := config.Load()
		Expect(err).NotTo(HaveOccurred())

		network := cfg.Network()
		Expect(network.RPCURL).To(Equal("http://localhost:8545"))
		Expect(network.ChainID).To(Equal(int64(31337)))
		Expect(network.Name).To(Equal("umi"))
	})

	It("rejects a malformed bridge destination", func() {
		os.Setenv("BRIDGE_DESTINATION", "0x1234")
		_, err := config.Load()
		Expect(err).To(MatchError(ContainSubstring("bridge destination")))
	})

	It("rejects an unknown time zone", func() {
		os.Setenv("QUEST_TIME_ZONE", "Mars/Olympus")
		_, err := config.Load()
		Expect(err).To(MatchError(ContainSubstring("time zone")))
	})

	It("rejects a non numeric chain id", func() {
		os.Setenv("BRIDGE_CHAIN_ID", "umi")
		_, err := config.Load()
		Expect(err).To(MatchError(ContainSubstring("BRIDGE_CHAIN_ID")))
	})
})
