package database

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mongovault/internal/types"
)

type ConnectionRepository interface {
	Save(ctx context.Context, conn *types.Connection) error
	FindByID(ctx context.Context, id uuid.UUID) (*types.Connection, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*types.Connection, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ScheduleRepository interface {
	Save(ctx context.Context, schedule *types.Schedule) error
	FindByID(ctx context.Context, id uuid.UUID) (*types.Schedule, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*types.Schedule, error)
	FindEnabled(ctx context.Context) ([]*types.Schedule, error)
	SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type RunLogRepository interface {
	Save(ctx context.Context, entry *types.RunLogEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*types.RunLogEntry, error)
	Finalize(ctx context.Context, id uuid.UUID, outcome types.RunOutcome) error
	Query(ctx context.Context, q types.RunQuery) ([]*types.RunLogEntry, int64, error)
	MarkDeleted(ctx context.Context, id uuid.UUID, reason string) error

	// CountStartedBetween reports runs of a schedule whose StartedAt falls
	// inside [from, to). The due-window idempotence guard is built on it.
	CountStartedBetween(ctx context.Context, scheduleID uuid.UUID, from, to time.Time) (int64, error)

	// FindExpired returns successful, not yet deleted entries of a schedule
	// whose retention window has passed.
	FindExpired(ctx context.Context, scheduleID uuid.UUID, now time.Time) ([]*types.RunLogEntry, error)

	// FindStaleRunning returns entries stuck in running that started before
	// the cutoff, so an orphaned run left by a crash can be reaped.
	FindStaleRunning(ctx context.Context, cutoff time.Time) ([]*types.RunLogEntry, error)
}
