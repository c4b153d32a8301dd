package create

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"mongovault/client/internal/api"
	"mongovault/client/internal/cmdutil"
)

func NewCreateScheduleCmd() *cobra.Command {
	var (
		connectionID   string
		database       string
		collections    []string
		storageKind    string
		folderPath     string
		days           []int
		times          []string
		timezone       string
		cronExpression string
		retentionDays  int
	)
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a backup schedule",
		Long:    "Schedule recurring backups of a database. Recurrence is either weekdays plus times of day, or a cron expression, never both.",
		Example: "mongovault schedules create --connection <id> --database shop --days 1,3,5 --times 02:30 --storage s3 --retention 14",
		Run: func(cmd *cobra.Command, args []string) {
			connID, err := uuid.Parse(connectionID)
			if err != nil {
				cmdutil.PrintE("Invalid connection ID: " + connectionID)
				return
			}
			if database == "" {
				cmdutil.PrintE("Please specify a database")
				return
			}
			if err := validateRecurrenceFlags(days, times, timezone, cronExpression); err != nil {
				cmdutil.PrintE(err.Error())
				return
			}

			prompt := promptui.Prompt{Label: "Backup password", Mask: '*'}
			backupPassword, err := prompt.Run()
			if err != nil {
				cmdutil.PrintE(err.Error())
				return
			}

			svc, err := cmdutil.Service()
			if err != nil {
				cmdutil.PrintE(err.Error())
				return
			}

			cmdutil.StartLoading("Working...")
			defer cmdutil.StopLoading()

			schedule, err := svc.CreateSchedule(cmd.Context(), api.CreateScheduleParams{
				ConnectionID:   connID,
				Database:       database,
				Collections:    collections,
				StorageKind:    storageKind,
				FolderPath:     folderPath,
				Days:           days,
				Times:          times,
				Timezone:       timezone,
				CronExpression: cronExpression,
				RetentionDays:  retentionDays,
				BackupPassword: backupPassword,
			})
			if err != nil {
				cmdutil.PrintE(err.Error())
				return
			}

			cmdutil.PrintS("Schedule created: " + schedule.ID.String())
		},
	}

	cmd.Flags().StringVarP(&connectionID, "connection", "c", "", "ID of the connection to back up from")
	cmd.Flags().StringVarP(&database, "database", "d", "", "Database to back up")
	cmd.Flags().StringSliceVar(&collections, "collections", nil, "Collections to include (default: all)")
	cmd.Flags().StringVarP(&storageKind, "storage", "s", "filesystem", "Destination: gdrive, s3 or filesystem")
	cmd.Flags().StringVarP(&folderPath, "folder", "f", "", "Destination folder path")
	cmd.Flags().IntSliceVar(&days, "days", nil, "Weekdays to run on, 0=Sunday through 6=Saturday")
	cmd.Flags().StringSliceVar(&times, "times", nil, "Times of day to run at, HH:MM")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone the times are evaluated in (default: UTC)")
	cmd.Flags().StringVarP(&cronExpression, "expression", "x", "", "Cron expression instead of days/times")
	cmd.Flags().IntVarP(&retentionDays, "retention", "r", 7, "Days to keep each backup before it is deleted")
	return cmd
}

func validateRecurrenceFlags(days []int, times []string, timezone, cronExpression string) error {
	if cronExpression != "" {
		if len(days) > 0 || len(times) > 0 {
			return fmt.Errorf("--expression cannot be combined with --days/--times")
		}
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(cronExpression); err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		return nil
	}

	if len(days) == 0 || len(times) == 0 {
		return fmt.Errorf("specify --days and --times, or --expression")
	}
	for _, d := range days {
		if d < 0 || d > 6 {
			return fmt.Errorf("invalid weekday %s: must be 0 through 6", strconv.Itoa(d))
		}
	}
	for _, v := range times {
		if _, err := time.Parse("15:04", strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("invalid time %q: must be HH:MM", v)
		}
	}
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			return fmt.Errorf("unknown timezone %q", timezone)
		}
	}
	return nil
}
