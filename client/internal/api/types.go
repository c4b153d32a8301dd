package api

import (
	"time"

	"github.com/google/uuid"
)

type (
	CreateConnectionParams struct {
		Name string `json:"name"`
		URI  string `json:"uri"`
		Safe bool   `json:"safe"`
	}

	CreateScheduleParams struct {
		ConnectionID   uuid.UUID `json:"connection_id"`
		Database       string    `json:"database"`
		Collections    []string  `json:"collections,omitempty"`
		StorageKind    string    `json:"storage_kind"`
		FolderPath     string    `json:"folder_path,omitempty"`
		Days           []int     `json:"days,omitempty"`
		Times          []string  `json:"times,omitempty"`
		Timezone       string    `json:"timezone,omitempty"`
		CronExpression string    `json:"cron_expression,omitempty"`
		RetentionDays  int       `json:"retention_days"`
		BackupPassword string    `json:"backup_password"`
	}

	DeleteScheduleParams struct {
		BackupPassword string `json:"backup_password"`
	}
)

type (
	Connection struct {
		ID        uuid.UUID `json:"id"`
		Name      string    `json:"name"`
		Safe      bool      `json:"safe"`
		CreatedAt time.Time `json:"created_at"`
	}

	Schedule struct {
		ID             uuid.UUID `json:"id"`
		ConnectionID   uuid.UUID `json:"connection_id"`
		Database       string    `json:"database"`
		Collections    []string  `json:"collections"`
		StorageKind    string    `json:"storage_kind"`
		FolderPath     string    `json:"folder_path"`
		Days           []int     `json:"days"`
		Times          []string  `json:"times"`
		Timezone       string    `json:"timezone"`
		CronExpression string    `json:"cron_expression"`
		RetentionDays  int       `json:"retention_days"`
		Enabled        bool      `json:"enabled"`
		CreatedAt      time.Time `json:"created_at"`
	}

	ScanSummary struct {
		Executed int `json:"executed"`
		Failed   int `json:"failed"`
		Total    int `json:"total"`
	}

	RunLogEntry struct {
		ID           uuid.UUID  `json:"id"`
		ScheduleID   uuid.UUID  `json:"schedule_id"`
		Status       string     `json:"status"`
		StartedAt    time.Time  `json:"started_at"`
		CompletedAt  *time.Time `json:"completed_at"`
		Collections  []string   `json:"collections"`
		Size         int64      `json:"size"`
		ArtifactLink string     `json:"artifact_link"`
		Error        string     `json:"error"`
	}
)
