package list

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"mongovault/client/internal/api"
	"mongovault/client/internal/cmdutil"
)

func NewListSchedulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backup schedules",
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
			schedules, err := svc.ListSchedules(ctx)
			if err != nil {
				cmdutil.PrintE(err.Error())
				return
			}

			header := table.Row{"ID", "Database", "Recurrence", "Destination", "Retention", "Enabled"}
			tw := table.NewWriter()
			tw.AppendHeader(header)
			for _, next := range schedules {
				row := table.Row{
					next.ID.String(),
					next.Database,
					recurrence(next),
					next.StorageKind,
					fmt.Sprintf("%dd", next.RetentionDays),
					next.Enabled,
				}
				tw.AppendRow(row)
				tw.AppendSeparator()
			}
			cmdutil.Print("")
			cmdutil.Print(tw.Render())
		},
	}
}

var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func recurrence(s api.Schedule) string {
	if s.CronExpression != "" {
		return s.CronExpression
	}

	names := make([]string, 0, len(s.Days))
	for _, d := range s.Days {
		if d >= 0 && d < len(weekdays) {
			names = append(names, weekdays[d])
		}
	}
	value := strings.Join(names, ",") + " at " + strings.Join(s.Times, ",")
	if s.Timezone != "" {
		value += " (" + s.Timezone + ")"
	}
	return value
}
