package types

import (
	"time"

	"github.com/google/uuid"
)

type (
	RunStatus string

	// RunLogEntry is the durable record of one attempted backup run. The
	// success/failure outcome is never rewritten once finalized; a later
	// retention sweep or user delete only annotates the deletion fields.
	RunLogEntry struct {
		ID         uuid.UUID `json:"id" gorm:"primaryKey"`
		ScheduleID uuid.UUID `json:"schedule_id"`
		Status     RunStatus `json:"status"`

		StartedAt   time.Time     `json:"started_at"`
		CompletedAt *time.Time    `json:"completed_at,omitempty"`
		Duration    time.Duration `json:"duration"`

		Collections []string `json:"collections" gorm:"serializer:json"`
		Size        int64    `json:"size"`

		ArtifactID   string `json:"artifact_id"`
		ArtifactLink string `json:"artifact_link"`
		Error        string `json:"error,omitempty"`

		// RetentionExpiresAt is only meaningful for successful runs.
		RetentionExpiresAt *time.Time `json:"retention_expires_at,omitempty"`
		DeletedAt          *time.Time `json:"deleted_at,omitempty"`
		DeletedReason      string     `json:"deleted_reason,omitempty"`

		Schedule *Schedule `json:"-" gorm:"foreignKey:ScheduleID"`
	}

	// RunOutcome carries the fields written when a running entry is
	// finalized.
	RunOutcome struct {
		Status      RunStatus
		CompletedAt time.Time
		Collections []string
		Size        int64
		Artifact    *Artifact
		// RetentionExpiresAt is set by the executor on success only.
		RetentionExpiresAt *time.Time
		Err                error
	}
)

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
	RunStatusDeleted RunStatus = "deleted"
)

// Artifact identifies an uploaded backup at its destination.
type Artifact struct {
	ID   string `json:"id"`
	Link string `json:"link"`
}
