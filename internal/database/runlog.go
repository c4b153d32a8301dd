package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mongovault/internal/types"
)

type (
	runLogRepository struct {
		db *gorm.DB
	}
)

func NewRunLogRepository(db *gorm.DB) RunLogRepository {
	return &runLogRepository{db: db}
}

func (r runLogRepository) Save(ctx context.Context, entry *types.RunLogEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r runLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*types.RunLogEntry, error) {
	result := &types.RunLogEntry{}
	err := r.db.WithContext(ctx).Where("id = ?", id).First(result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrNotFound
	}
	return result, err
}

func (r runLogRepository) Finalize(ctx context.Context, id uuid.UUID, outcome types.RunOutcome) error {
	entry, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// Only a running entry may be finalized; outcomes are immutable after.
	if entry.Status != types.RunStatusRunning {
		return errors.New("run log entry already finalized")
	}

	completed := outcome.CompletedAt
	entry.Status = outcome.Status
	entry.CompletedAt = &completed
	entry.Duration = completed.Sub(entry.StartedAt)
	entry.Collections = outcome.Collections
	entry.Size = outcome.Size
	if outcome.Artifact != nil {
		entry.ArtifactID = outcome.Artifact.ID
		entry.ArtifactLink = outcome.Artifact.Link
	}
	entry.RetentionExpiresAt = outcome.RetentionExpiresAt
	if outcome.Err != nil {
		entry.Error = outcome.Err.Error()
	}
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r runLogRepository) Query(ctx context.Context, q types.RunQuery) ([]*types.RunLogEntry, int64, error) {
	tx := r.db.WithContext(ctx).Model(&types.RunLogEntry{})
	if q.ScheduleID != uuid.Nil {
		tx = tx.Where("schedule_id = ?", q.ScheduleID)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if !q.From.IsZero() {
		tx = tx.Where("started_at >= ?", q.From)
	}
	if !q.To.IsZero() {
		tx = tx.Where("started_at < ?", q.To)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}

	result := make([]*types.RunLogEntry, 0)
	err := tx.Order("started_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&result).Error
	return result, total, err
}

func (r runLogRepository) MarkDeleted(ctx context.Context, id uuid.UUID, reason string) error {
	entry, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	entry.Status = types.RunStatusDeleted
	entry.DeletedAt = &now
	entry.DeletedReason = reason
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r runLogRepository) CountStartedBetween(ctx context.Context, scheduleID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&types.RunLogEntry{}).
		Where("schedule_id = ? AND started_at >= ? AND started_at < ?", scheduleID, from, to).
		Count(&count).Error
	return count, err
}

func (r runLogRepository) FindExpired(ctx context.Context, scheduleID uuid.UUID, now time.Time) ([]*types.RunLogEntry, error) {
	result := make([]*types.RunLogEntry, 0)
	err := r.db.WithContext(ctx).
		Where("schedule_id = ? AND status = ? AND retention_expires_at IS NOT NULL AND retention_expires_at < ?",
			scheduleID, types.RunStatusSuccess, now).
		Find(&result).Error
	return result, err
}

func (r runLogRepository) FindStaleRunning(ctx context.Context, cutoff time.Time) ([]*types.RunLogEntry, error) {
	result := make([]*types.RunLogEntry, 0)
	err := r.db.WithContext(ctx).
		Where("status = ? AND started_at < ?", types.RunStatusRunning, cutoff).
		Find(&result).Error
	return result, err
}
