package agent

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/lisanmuaddib/quest-runner/pkg/accounts"
	"github.com/lisanmuaddib/quest-runner/pkg/status"
)

var trackedTasks = []status.Task{
	status.TaskFaucet,
	status.TaskQuestFaucet,
	status.TaskDailyXP,
	status.TaskQuestTweet,
}

// PrintStatus writes today's completion table for the given accounts.
func PrintStatus(w io.Writer, store StatusReader, all []*accounts.Account) {
	done := color.New(color.FgGreen)
	pending := color.New(color.FgRed)

	fmt.Fprintf(w, "Daily status for %s\n", store.ResetDate())
	for _, account := range all {
		snapshot := store.Snapshot(account.ID)
		fmt.Fprintf(w, "%-4d %-20s", account.ID, account.Name)
		for _, task := range trackedTasks {
			if snapshot[task] {
				fmt.Fprintf(w, " %s", done.Sprintf("%s:done", task))
			} else {
				fmt.Fprintf(w, " %s", pending.Sprintf("%s:pending", task))
			}
		}
		fmt.Fprintln(w)
	}
}
