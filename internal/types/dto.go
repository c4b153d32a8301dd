package types

import (
	"time"

	"github.com/google/uuid"
)

type (
	CreateConnectionParams struct {
		Name string `json:"name" validate:"required"`
		URI  string `json:"uri" validate:"required,startswith=mongodb"`
		Safe bool   `json:"safe"`
	}

	CreateScheduleParams struct {
		ConnectionID   uuid.UUID `json:"connection_id" validate:"required"`
		Database       string    `json:"database" validate:"required"`
		Collections    []string  `json:"collections"`
		StorageKind    string    `json:"storage_kind" validate:"required,oneof=gdrive s3 filesystem"`
		FolderPath     string    `json:"folder_path"`
		Days           []int     `json:"days" validate:"omitempty,dive,min=0,max=6"`
		Times          []string  `json:"times" validate:"omitempty,dive,datetime=15:04"`
		Timezone       string    `json:"timezone"`
		CronExpression string    `json:"cron_expression"`
		RetentionDays  int       `json:"retention_days" validate:"required,min=1"`

		// BackupPassword must be re-entered on creation and on any later
		// sensitive mutation.
		BackupPassword string `json:"backup_password" validate:"required"`
	}

	UpdateScheduleParams struct {
		Collections    []string `json:"collections"`
		StorageKind    string   `json:"storage_kind" validate:"omitempty,oneof=gdrive s3 filesystem"`
		FolderPath     string   `json:"folder_path"`
		Days           []int    `json:"days" validate:"omitempty,dive,min=0,max=6"`
		Times          []string `json:"times" validate:"omitempty,dive,datetime=15:04"`
		Timezone       string   `json:"timezone"`
		CronExpression string   `json:"cron_expression"`
		RetentionDays  int      `json:"retention_days" validate:"omitempty,min=1"`
		BackupPassword string   `json:"backup_password" validate:"required"`
	}

	// RunQuery filters and paginates run history.
	RunQuery struct {
		ScheduleID uuid.UUID
		Status     RunStatus
		From       time.Time
		To         time.Time
		Page       int
		PerPage    int
	}

	// ExecuteResult is what one backup run reports back to the scanner.
	// Error is informational; a failed run is a result, not a propagated
	// error.
	ExecuteResult struct {
		Success bool      `json:"success"`
		LogID   uuid.UUID `json:"log_id"`
		Error   string    `json:"error,omitempty"`
	}

	// ScanSummary aggregates one due-schedule pass.
	ScanSummary struct {
		Executed int `json:"executed"`
		Failed   int `json:"failed"`
		Total    int `json:"total"`
	}
)
