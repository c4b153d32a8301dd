package configcmd

import (
	"github.com/spf13/cobra"

	"mongovault/client/internal/api"
	initcmd "mongovault/client/pkg/cmd/config/init"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config <command>",
		Aliases: []string{"c"},
		Short:   "Manage mongovault client configuration",
	}

	cmd.AddCommand(initcmd.NewConfigInitCmd(api.NewPinger()))
	return cmd
}
