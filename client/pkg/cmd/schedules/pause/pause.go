package pause

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mongovault/client/internal/cmdutil"
)

// NewPauseScheduleCmd builds both halves of the pause/resume pair; they
// only differ in the enabled flag sent to the server.
func NewPauseScheduleCmd(enable bool) *cobra.Command {
	use, short, done := "pause", "Pause a schedule", "Schedule paused"
	if enable {
		use, short, done = "resume", "Resume a paused schedule", "Schedule resumed"
	}

	var id string
	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Long:    "A paused schedule drops out of due-scans but keeps its configuration and run history.",
		Example: "mongovault schedules " + use + " --id <schedule_id>",
		Run: func(cmd *cobra.Command, args []string) {
			scheduleID, err := uuid.Parse(id)
			if err != nil {
				cmdutil.PrintE("Invalid schedule ID: " + id)
				return
			}

			svc, err := cmdutil.Service()
			if err != nil {
				cmdutil.PrintE(err.Error())
				return
			}

			cmdutil.StartLoading("Working...")
			defer cmdutil.StopLoading()

			if err := svc.SetScheduleEnabled(cmd.Context(), scheduleID, enable); err != nil {
				cmdutil.PrintE(err.Error())
				return
			}
			cmdutil.PrintS(done)
		},
	}

	cmd.Flags().StringVarP(&id, "id", "i", "", "ID of the schedule")
	return cmd
}
