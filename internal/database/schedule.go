package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mongovault/internal/types"
)

type (
	scheduleRepository struct {
		db *gorm.DB
	}
)

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (s scheduleRepository) Save(ctx context.Context, schedule *types.Schedule) error {
	return s.db.WithContext(ctx).Save(schedule).Error
}

func (s scheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*types.Schedule, error) {
	result := &types.Schedule{}
	err := s.db.WithContext(ctx).Where("id = ?", id).First(result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrNotFound
	}
	return result, err
}

func (s scheduleRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*types.Schedule, error) {
	result := make([]*types.Schedule, 0)
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&result).Error
	return result, err
}

func (s scheduleRepository) FindEnabled(ctx context.Context) ([]*types.Schedule, error) {
	result := make([]*types.Schedule, 0)
	err := s.db.WithContext(ctx).Where("enabled = ?", true).Find(&result).Error
	return result, err
}

func (s scheduleRepository) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	return s.db.WithContext(ctx).Model(&types.Schedule{}).
		Where("id = ?", id).
		Update("enabled", enabled).Error
}

func (s scheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&types.Schedule{}).Error
}
