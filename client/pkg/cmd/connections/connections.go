package connections

import (
	"github.com/spf13/cobra"

	"mongovault/client/pkg/cmd/connections/add"
	"mongovault/client/pkg/cmd/connections/list"
	"mongovault/client/pkg/cmd/connections/remove"
)

func NewConnectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "connections <command>",
		Aliases: []string{"conn"},
		Short:   "Manage MongoDB connections",
		Long:    "Register, view and delete the MongoDB connections backups are taken from",
	}

	cmd.AddCommand(add.NewAddConnectionCmd())
	cmd.AddCommand(list.NewListConnectionsCmd())
	cmd.AddCommand(remove.NewRemoveConnectionCmd())
	return cmd
}
