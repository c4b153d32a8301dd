package backup

import (
	"github.com/spf13/cobra"

	"mongovault/client/pkg/cmd/backup/trigger"
)

func NewBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backup <command>",
		Aliases: []string{"b"},
		Short:   "Run backups",
	}

	cmd.AddCommand(trigger.NewTriggerBackupCmd())
	return cmd
}
