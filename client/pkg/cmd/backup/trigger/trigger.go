package trigger

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"mongovault/client/internal/cmdutil"
)

func NewTriggerBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "trigger",
		Short:   "Run every schedule due in the current minute",
		Long:    "Fire the due-schedule scan the external timer would run. Schedules that already ran in this minute are skipped. Requires the server's cron secret.",
		Example: "mongovault backup trigger",
		Run: func(cmd *cobra.Command, args []string) {
			prompt := promptui.Prompt{Label: "Cron secret", Mask: '*'}
			cronSecret, err := prompt.Run()
			if err != nil {
				cmdutil.PrintE(err.Error())
				return
			}

			svc, err := cmdutil.Service()
			if err != nil {
				cmdutil.PrintE(err.Error())
				return
			}

			cmdutil.StartLoading("Working...")
			defer cmdutil.StopLoading()

			summary, err := svc.TriggerBackupScan(cmd.Context(), cronSecret)
			if err != nil {
				cmdutil.PrintE(err.Error())
				return
			}

			cmdutil.PrintS(fmt.Sprintf("Scan finished: %d due, %d executed, %d failed",
				summary.Total, summary.Executed, summary.Failed))
		},
	}
}
