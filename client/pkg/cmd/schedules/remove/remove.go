package remove

import (
	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"mongovault/client/internal/cmdutil"
)

func NewRemoveScheduleCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:     "remove",
		Short:   "Delete a schedule",
		Long:    "Delete a backup schedule. Run history and existing backups are kept. The backup password is required.",
		Example: "mongovault schedules remove --id <schedule_id>",
		Run: func(cmd *cobra.Command, args []string) {
			scheduleID, err := uuid.Parse(id)
			if err != nil {
				cmdutil.PrintE("Invalid schedule ID: " + id)
				return
			}

			prompt := promptui.Prompt{Label: "Backup password", Mask: '*'}
			backupPassword, err := prompt.Run()
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

			if err := svc.DeleteSchedule(cmd.Context(), scheduleID, backupPassword); err != nil {
				cmdutil.PrintE(err.Error())
				return
			}
			cmdutil.PrintS("Schedule deleted")
		},
	}

	cmd.Flags().StringVarP(&id, "id", "i", "", "ID of the schedule to delete")
	return cmd
}
