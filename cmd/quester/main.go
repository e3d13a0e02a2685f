package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var accountSelector string

var rootCmd = &cobra.Command{
	Use:   "quester",
	Short: "Run the daily Odyssey quests for a set of accounts",
	Long: `quester claims the faucet, the faucet and tweet quests and the daily XP
for every configured account, then bridges native tokens for accounts that
hold a private key.

Accounts are read from accounts.txt, Twitter credentials from twitter.txt and
optional proxies from proxy.txt. Settings can be overridden through the
environment or a .env file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountSelector, "accounts", "a", "all",
		`accounts to process: "all" or 1-based positions such as "1,3"`)

	rootCmd.AddCommand(runCmd, statusCmd)
	for _, cmd := range taskCommands() {
		rootCmd.AddCommand(cmd)
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleSignals(cancel)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// handleSignals cancels the run on the first signal and exits on the second.
// Cancellation takes effect between passes, so the first signal lets the
// running pass finish.
func handleSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	logrus.Warn("Received shutdown signal, stopping after the current pass (signal again to exit now)")
	cancel()

	<-sigChan
	logrus.Warn("Received second signal, exiting")
	os.Exit(130)
}
