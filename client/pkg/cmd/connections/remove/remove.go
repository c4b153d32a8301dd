package remove

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mongovault/client/internal/cmdutil"
)

func NewRemoveConnectionCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:     "remove",
		Short:   "Remove a connection",
		Example: "mongovault connections remove --id <connection_id>",
		Run: func(cmd *cobra.Command, args []string) {
			connectionID, err := uuid.Parse(id)
			if err != nil {
				cmdutil.PrintE("Invalid connection ID: " + id)
				return
			}

			svc, err := cmdutil.Service()
			if err != nil {
				cmdutil.PrintE(err.Error())
				return
			}

			cmdutil.StartLoading("Working...")
			defer cmdutil.StopLoading()

			if err := svc.DeleteConnection(cmd.Context(), connectionID); err != nil {
				cmdutil.PrintE(err.Error())
				return
			}
			cmdutil.PrintS("Connection removed")
		},
	}

	cmd.Flags().StringVarP(&id, "id", "i", "", "ID of the connection to remove")
	return cmd
}
