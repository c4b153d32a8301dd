package remove

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mongovault/client/internal/cmdutil"
)

func NewRemoveArtifactCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:     "remove",
		Short:   "Delete a run's backup artifact",
		Long:    "Delete the uploaded backup file of a run before its retention window ends. The run log entry stays, annotated as deleted.",
		Example: "mongovault runs remove --id <run_id>",
		Run: func(cmd *cobra.Command, args []string) {
			runID, err := uuid.Parse(id)
			if err != nil {
				cmdutil.PrintE("Invalid run ID: " + id)
				return
			}

			svc, err := cmdutil.Service()
			if err != nil {
				cmdutil.PrintE(err.Error())
				return
			}

			cmdutil.StartLoading("Working...")
			defer cmdutil.StopLoading()

			if err := svc.DeleteRunArtifact(cmd.Context(), runID); err != nil {
				cmdutil.PrintE(err.Error())
				return
			}
			cmdutil.PrintS("Artifact deleted")
		},
	}

	cmd.Flags().StringVarP(&id, "id", "i", "", "ID of the run whose artifact to delete")
	return cmd
}
