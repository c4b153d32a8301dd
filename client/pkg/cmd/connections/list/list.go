package list

import (
	"context"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"mongovault/client/internal/cmdutil"
)

func NewListConnectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List connections",
		Long:  "List the registered MongoDB connections. Connection strings are never returned by the server.",
		Run: func(cmd *cobra.Command, args []string) {
			svc, err := cmdutil.Service()
			if err != nil {
				cmdutil.PrintE(err.Error())
				return
			}

			cmdutil.StartLoading("Working...")
			defer cmdutil.StopLoading()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			conns, err := svc.ListConnections(ctx)
			if err != nil {
				cmdutil.PrintE(err.Error())
				return
			}

			header := table.Row{"ID", "Name", "Safe", "Time Created"}
			tw := table.NewWriter()
			tw.AppendHeader(header)
			for _, next := range conns {
				row := table.Row{
					next.ID.String(),
					next.Name,
					next.Safe,
					next.CreatedAt.Format("02-01-2006"),
				}
				tw.AppendRow(row)
				tw.AppendSeparator()
			}
			cmdutil.Print("")
			cmdutil.Print(tw.Render())
		},
	}
}
