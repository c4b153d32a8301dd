package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mongovault/internal/types"
)

type (
	connectionRepository struct {
		db *gorm.DB
	}
)

func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

func (c connectionRepository) Save(ctx context.Context, conn *types.Connection) error {
	return c.db.WithContext(ctx).Save(conn).Error
}

func (c connectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*types.Connection, error) {
	result := &types.Connection{}
	err := c.db.WithContext(ctx).Where("id = ?", id).First(result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrNotFound
	}
	return result, err
}

func (c connectionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*types.Connection, error) {
	result := make([]*types.Connection, 0)
	err := c.db.WithContext(ctx).Where("user_id = ?", userID).Find(&result).Error
	return result, err
}

func (c connectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return c.db.WithContext(ctx).Where("id = ?", id).Delete(&types.Connection{}).Error
}
