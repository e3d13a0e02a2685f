package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/lisanmuaddib/quest-runner/internal/config"
	"github.com/lisanmuaddib/quest-runner/pkg/logging"
	"github.com/lisanmuaddib/quest-runner/pkg/status"
)

var loop bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every daily task for the selected accounts",
	Long: `Run the full pipeline (faucet, faucet quest, daily XP, tweet quest and
bridge) for each selected account. With --loop the pass repeats every
24 hours and 5 minutes until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer rt.Close()

		if loop {
			err := rt.agent.RunLoop(cmd.Context(), rt.selected)
			if errors.Is(err, context.Canceled) {
				rt.log.Info("Campaign loop stopped")
				return nil
			}
			return err
		}

		rt.agent.RunOnce(cmd.Context(), rt.selected)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&loop, "loop", false, "repeat the full pass every 24h05m")
}

type taskCommand struct {
	use   string
	short string
	task  status.Task
}

var singleTasks = []taskCommand{
	{use: "faucet", short: "Claim the faucet", task: status.TaskFaucet},
	{use: "quest-faucet", short: "Claim the faucet quest", task: status.TaskQuestFaucet},
	{use: "xp", short: "Claim the daily XP", task: status.TaskDailyXP},
	{use: "quest-tweet", short: "Post, claim and delete the quest tweet", task: status.TaskQuestTweet},
	{use: "bridge", short: "Bridge native tokens for accounts with a private key", task: status.TaskBridge},
}

func taskCommands() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(singleTasks))
	for _, tc := range singleTasks {
		tc := tc
		cmds = append(cmds, &cobra.Command{
			Use:   tc.use,
			Short: tc.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				rt, err := newRuntime(cmd.Context(), tc.task == status.TaskBridge)
				if err != nil {
					return err
				}
				defer rt.Close()

				_, err = rt.agent.RunTask(cmd.Context(), tc.task, rt.selected)
				return err
			},
		})
	}
	return cmds
}

var historyLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent passes from the run history database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)

		history, closeDB, err := openHistory(log)
		if err != nil {
			return err
		}
		defer closeDB()

		runs, err := history.RecentPasses(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tMODE\tSTARTED\tDURATION\tACCOUNTS\tOK\tFAILED\tSKIPPED")
		for _, run := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
				run.ID[:8], run.Mode, run.StartedAt.Local().Format("2006-01-02 15:04"),
				run.FinishedAt.Sub(run.StartedAt).Round(time.Second), len(run.AccountNames),
				run.Succeeded, run.Failed, run.Skipped)
		}
		return w.Flush()
	},
}

func init() {
	statusCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of passes to show")
}
