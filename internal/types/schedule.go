package types

import (
	"time"

	"github.com/google/uuid"
)

type (
	StorageKind string

	// Schedule describes a recurring backup of one MongoDB database to a
	// storage destination. Recurrence is either a weekday/time-of-day set
	// evaluated in Timezone, or a five-field cron expression - never both.
	Schedule struct {
		ID             uuid.UUID `json:"id" gorm:"primaryKey"`
		UserID         uuid.UUID `json:"user_id"`
		OrganizationID uuid.UUID `json:"organization_id"`
		ConnectionID   uuid.UUID `json:"connection_id"`
		Database       string    `json:"database"`

		// Collections is the explicit set to back up. Empty means every
		// non-system collection found at run time.
		Collections []string `json:"collections" gorm:"serializer:json"`

		StorageKind StorageKind `json:"storage_kind"`
		FolderPath  string      `json:"folder_path"`

		Days           []int    `json:"days" gorm:"serializer:json"`
		Times          []string `json:"times" gorm:"serializer:json"`
		Timezone       string   `json:"timezone"`
		CronExpression string   `json:"cron_expression"`

		RetentionDays int  `json:"retention_days"`
		Enabled       bool `json:"enabled"`

		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}
)

const (
	StorageKindDrive StorageKind = "gdrive"
	StorageKindS3    StorageKind = "s3"
	StorageKindFS    StorageKind = "filesystem"

	DefaultTimezone = "UTC"
)

func (s StorageKind) String() string {
	return string(s)
}

// Location returns the IANA location recurrence times are interpreted in.
func (s *Schedule) Location() (*time.Location, error) {
	tz := s.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	return time.LoadLocation(tz)
}
