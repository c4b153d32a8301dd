package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mongovault/internal/auth"
	"mongovault/internal/database"
	"mongovault/internal/storage"
	"mongovault/internal/types"
	"mongovault/logger"
)

type (
	RunLogService interface {
		Query(ctx context.Context, user *auth.User, q types.RunQuery) ([]*types.RunLogEntry, int64, error)

		// DeleteArtifact removes a run's remote artifact on explicit user
		// request and marks the entry deleted. The log row itself stays:
		// audit history is annotated, never erased.
		DeleteArtifact(ctx context.Context, user *auth.User, id uuid.UUID) error
	}

	runLogService struct {
		repo           database.RunLogRepository
		scheduleRepo   database.ScheduleRepository
		storageFactory storage.Factory
	}
)

func NewRunLogService(repo database.RunLogRepository, scheduleRepo database.ScheduleRepository, storageFactory storage.Factory) RunLogService {
	return &runLogService{
		repo:           repo,
		scheduleRepo:   scheduleRepo,
		storageFactory: storageFactory,
	}
}

func (r runLogService) Query(ctx context.Context, user *auth.User, q types.RunQuery) ([]*types.RunLogEntry, int64, error) {
	if q.ScheduleID != uuid.Nil {
		if _, err := r.ownedSchedule(ctx, user, q.ScheduleID); err != nil {
			return nil, 0, err
		}
	}
	return r.repo.Query(ctx, q)
}

func (r runLogService) DeleteArtifact(ctx context.Context, user *auth.User, id uuid.UUID) error {
	entry, err := r.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	schedule, err := r.ownedSchedule(ctx, user, entry.ScheduleID)
	if err != nil {
		return err
	}

	if entry.ArtifactID != "" {
		st, err := r.storageFactory.Get(schedule.StorageKind)
		if err == nil {
			err = st.Delete(ctx, entry.ArtifactID)
		}
		if err != nil {
			logger.Warn("failed to delete artifact on user request",
				zap.String("log_id", entry.ID.String()),
				zap.Error(err))
			return err
		}
	}

	return r.repo.MarkDeleted(ctx, id, "deleted by user")
}

func (r runLogService) ownedSchedule(ctx context.Context, user *auth.User, scheduleID uuid.UUID) (*types.Schedule, error) {
	schedule, err := r.scheduleRepo.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.UserID != user.ID {
		return nil, types.ErrPermission
	}
	return schedule, nil
}
