package cmd

import (
	"github.com/spf13/cobra"

	"mongovault/client/pkg/cmd/backup"
	configcmd "mongovault/client/pkg/cmd/config"
	"mongovault/client/pkg/cmd/connections"
	"mongovault/client/pkg/cmd/runs"
	"mongovault/client/pkg/cmd/schedules"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mongovault",
		Short: "mongovault - scheduled MongoDB backups",
	}

	cmd.AddCommand(configcmd.NewConfigCmd())
	cmd.AddCommand(backup.NewBackupCmd())
	cmd.AddCommand(connections.NewConnectionsCmd())
	cmd.AddCommand(schedules.NewSchedulesCmd())
	cmd.AddCommand(runs.NewRunsCmd())
	return cmd
}
