package schedules

import (
	"github.com/spf13/cobra"

	"mongovault/client/pkg/cmd/schedules/create"
	"mongovault/client/pkg/cmd/schedules/list"
	"mongovault/client/pkg/cmd/schedules/pause"
	"mongovault/client/pkg/cmd/schedules/remove"
)

func NewSchedulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedules <command>",
		Aliases: []string{"s"},
		Short:   "Manage backup schedules",
		Long:    "Create, view, pause and delete backup schedules",
	}

	cmd.AddCommand(create.NewCreateScheduleCmd())
	cmd.AddCommand(list.NewListSchedulesCmd())
	cmd.AddCommand(pause.NewPauseScheduleCmd(false))
	cmd.AddCommand(pause.NewPauseScheduleCmd(true))
	cmd.AddCommand(remove.NewRemoveScheduleCmd())
	return cmd
}
