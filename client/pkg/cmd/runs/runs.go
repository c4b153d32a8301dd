package runs

import (
	"github.com/spf13/cobra"

	"mongovault/client/pkg/cmd/runs/list"
	"mongovault/client/pkg/cmd/runs/remove"
)

func NewRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "runs <command>",
		Aliases: []string{"r"},
		Short:   "Inspect backup run history",
		Long:    "View the run log of a schedule and delete backup artifacts",
	}

	cmd.AddCommand(list.NewListRunsCmd())
	cmd.AddCommand(remove.NewRemoveArtifactCmd())
	return cmd
}
