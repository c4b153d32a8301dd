package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	errors2 "github.com/pkg/errors"
	"github.com/samber/lo"

	"mongovault/internal/auth"
	"mongovault/internal/clock"
	"mongovault/internal/database"
	"mongovault/internal/types"
)

type (
	ScheduleService interface {
		Create(ctx context.Context, user *auth.User, params types.CreateScheduleParams) (*types.Schedule, error)
		Update(ctx context.Context, user *auth.User, id uuid.UUID, params types.UpdateScheduleParams) (*types.Schedule, error)
		List(ctx context.Context, user *auth.User) ([]*types.Schedule, error)
		Get(ctx context.Context, user *auth.User, id uuid.UUID) (*types.Schedule, error)
		SetEnabled(ctx context.Context, user *auth.User, id uuid.UUID, enabled bool) error
		Delete(ctx context.Context, user *auth.User, id uuid.UUID, backupPassword string) error
	}

	scheduleService struct {
		repo       database.ScheduleRepository
		connRepo   database.ConnectionRepository
		authorizer auth.Authorizer
		validate   *validator.Validate
	}
)

func NewScheduleService(repo database.ScheduleRepository, connRepo database.ConnectionRepository, authorizer auth.Authorizer) ScheduleService {
	return &scheduleService{
		repo:       repo,
		connRepo:   connRepo,
		authorizer: authorizer,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s scheduleService) Create(ctx context.Context, user *auth.User, params types.CreateScheduleParams) (*types.Schedule, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, errors2.Wrap(types.ErrValidation, err.Error())
	}
	if err := validateRecurrence(params.Days, params.Times, params.Timezone, params.CronExpression); err != nil {
		return nil, err
	}
	if !s.authorizer.VerifyBackupPassword(params.BackupPassword) {
		return nil, errors2.Wrap(types.ErrPermission, "backup password rejected")
	}

	conn, err := s.connRepo.FindByID(ctx, params.ConnectionID)
	if err != nil {
		return nil, errors2.Wrap(types.ErrValidation, "unknown connection")
	}
	if !s.authorizer.CanAccessConnection(ctx, user.ID, conn) {
		return nil, types.ErrPermission
	}

	schedule := &types.Schedule{
		ID:             uuid.New(),
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		ConnectionID:   params.ConnectionID,
		Database:       params.Database,
		Collections:    params.Collections,
		StorageKind:    types.StorageKind(params.StorageKind),
		FolderPath:     params.FolderPath,
		Days:           normalizeDays(params.Days),
		Times:          normalizeTimes(params.Times),
		Timezone:       params.Timezone,
		CronExpression: params.CronExpression,
		RetentionDays:  params.RetentionDays,
		Enabled:        true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := s.repo.Save(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s scheduleService) Update(ctx context.Context, user *auth.User, id uuid.UUID, params types.UpdateScheduleParams) (*types.Schedule, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, errors2.Wrap(types.ErrValidation, err.Error())
	}
	if !s.authorizer.VerifyBackupPassword(params.BackupPassword) {
		return nil, errors2.Wrap(types.ErrPermission, "backup password rejected")
	}

	schedule, err := s.ownedSchedule(ctx, user, id)
	if err != nil {
		return nil, err
	}

	if params.Collections != nil {
		schedule.Collections = params.Collections
	}
	if params.StorageKind != "" {
		schedule.StorageKind = types.StorageKind(params.StorageKind)
	}
	if params.FolderPath != "" {
		schedule.FolderPath = params.FolderPath
	}
	// A supplied recurrence replaces the other mode entirely, so a weekday
	// schedule can switch to cron and back. Supplying both in one request is
	// still rejected below.
	switch {
	case params.CronExpression != "":
		if len(params.Days) > 0 || len(params.Times) > 0 {
			return nil, errors2.Wrap(types.ErrValidation, "cron expression and weekday recurrence are mutually exclusive")
		}
		schedule.CronExpression = params.CronExpression
		schedule.Days = nil
		schedule.Times = nil
	case len(params.Days) > 0 || len(params.Times) > 0:
		schedule.CronExpression = ""
		if len(params.Days) > 0 {
			schedule.Days = normalizeDays(params.Days)
		}
		if len(params.Times) > 0 {
			schedule.Times = normalizeTimes(params.Times)
		}
	}
	if params.Timezone != "" {
		schedule.Timezone = params.Timezone
	}
	if params.RetentionDays > 0 {
		schedule.RetentionDays = params.RetentionDays
	}

	if err := validateRecurrence(schedule.Days, schedule.Times, schedule.Timezone, schedule.CronExpression); err != nil {
		return nil, err
	}

	schedule.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s scheduleService) List(ctx context.Context, user *auth.User) ([]*types.Schedule, error) {
	return s.repo.FindByUserID(ctx, user.ID)
}

func (s scheduleService) Get(ctx context.Context, user *auth.User, id uuid.UUID) (*types.Schedule, error) {
	return s.ownedSchedule(ctx, user, id)
}

// SetEnabled pauses or resumes a schedule. Pausing is the soft alternative
// to deletion: the schedule drops out of due-scans but keeps its history.
func (s scheduleService) SetEnabled(ctx context.Context, user *auth.User, id uuid.UUID, enabled bool) error {
	if _, err := s.ownedSchedule(ctx, user, id); err != nil {
		return err
	}
	return s.repo.SetEnabled(ctx, id, enabled)
}

// Delete removes the schedule from future scans. Run log entries survive:
// history is never erased with its schedule.
func (s scheduleService) Delete(ctx context.Context, user *auth.User, id uuid.UUID, backupPassword string) error {
	if !s.authorizer.VerifyBackupPassword(backupPassword) {
		return errors2.Wrap(types.ErrPermission, "backup password rejected")
	}
	if _, err := s.ownedSchedule(ctx, user, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s scheduleService) ownedSchedule(ctx context.Context, user *auth.User, id uuid.UUID) (*types.Schedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule.UserID != user.ID {
		return nil, types.ErrPermission
	}
	return schedule, nil
}

// validateRecurrence enforces the schedule invariants: exactly one of
// weekday/time recurrence or a cron expression, non-empty sets, a loadable
// timezone.
func validateRecurrence(days []int, times []string, timezone, cronExpression string) error {
	if cronExpression != "" {
		if len(days) > 0 || len(times) > 0 {
			return errors2.Wrap(types.ErrValidation, "cron expression and weekday recurrence are mutually exclusive")
		}
		if _, err := clock.ParseCron(cronExpression); err != nil {
			return errors2.Wrap(types.ErrValidation, err.Error())
		}
		return nil
	}

	if len(days) == 0 || len(times) == 0 {
		return errors2.Wrap(types.ErrValidation, "recurrence requires at least one day and one time")
	}
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			return errors2.Wrap(types.ErrValidation, "unknown timezone "+timezone)
		}
	}
	return nil
}

func normalizeDays(days []int) []int {
	return lo.Uniq(days)
}

func normalizeTimes(times []string) []string {
	return lo.Uniq(times)
}
