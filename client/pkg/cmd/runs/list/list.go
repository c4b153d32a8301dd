package list

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"mongovault/client/internal/api"
	"mongovault/client/internal/cmdutil"
)

func NewListRunsCmd() *cobra.Command {
	var scheduleID string
	var status string
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List the runs of a schedule",
		Example: "mongovault runs list --schedule <schedule_id> --status failed",
		Run: func(cmd *cobra.Command, args []string) {
			id, err := uuid.Parse(scheduleID)
			if err != nil {
				cmdutil.PrintE("Invalid schedule ID: " + scheduleID)
				return
			}

			svc, err := cmdutil.Service()
			if err != nil {
				cmdutil.PrintE(err.Error())
				return
			}

			cmdutil.StartLoading("Working...")
			defer cmdutil.StopLoading()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			entries, err := svc.ListRuns(ctx, id, status)
			if err != nil {
				cmdutil.PrintE(err.Error())
				return
			}

			header := table.Row{"ID", "Status", "Started", "Collections", "Size", "Detail"}
			tw := table.NewWriter()
			tw.AppendHeader(header)
			for _, next := range entries {
				tw.AppendRow(table.Row{
					next.ID.String(),
					next.Status,
					next.StartedAt.Format("02-01-2006 15:04"),
					len(next.Collections),
					formatSize(next.Size),
					detail(next),
				})
				tw.AppendSeparator()
			}
			cmdutil.Print("")
			cmdutil.Print(tw.Render())
		},
	}

	cmd.Flags().StringVarP(&scheduleID, "schedule", "s", "", "ID of the schedule")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status: running, success, failed, deleted")
	return cmd
}

func detail(entry api.RunLogEntry) string {
	if entry.Error != "" {
		return entry.Error
	}
	return entry.ArtifactLink
}

func formatSize(size int64) string {
	if size < 1024*1024 {
		return fmt.Sprintf("%d B", size)
	}
	return fmt.Sprintf("%.2f MB", float64(size)/(1024*1024))
}
