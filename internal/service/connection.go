package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	errors2 "github.com/pkg/errors"

	"mongovault/internal/auth"
	"mongovault/internal/database"
	"mongovault/internal/misc"
	"mongovault/internal/types"
)

type (
	ConnectionService interface {
		Create(ctx context.Context, user *auth.User, params types.CreateConnectionParams) (*types.Connection, error)
		List(ctx context.Context, user *auth.User) ([]*types.Connection, error)
		Delete(ctx context.Context, user *auth.User, id uuid.UUID) error

		// ResolveURI returns the decrypted connection string for a backup
		// run, after the permission checks.
		ResolveURI(ctx context.Context, userID, orgID, connectionID uuid.UUID) (string, error)
	}

	connectionService struct {
		repo       database.ConnectionRepository
		encryptor  misc.Encryptor
		authorizer auth.Authorizer
		validate   *validator.Validate
	}
)

func NewConnectionService(repo database.ConnectionRepository, encryptor misc.Encryptor, authorizer auth.Authorizer) ConnectionService {
	return &connectionService{
		repo:       repo,
		encryptor:  encryptor,
		authorizer: authorizer,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (c connectionService) Create(ctx context.Context, user *auth.User, params types.CreateConnectionParams) (*types.Connection, error) {
	if err := c.validate.Struct(params); err != nil {
		return nil, errors2.Wrap(types.ErrValidation, err.Error())
	}

	encrypted, err := c.encryptor.Encrypt(params.URI)
	if err != nil {
		return nil, errors2.Wrap(err, "failed to encrypt connection string")
	}

	conn := &types.Connection{
		ID:             uuid.New(),
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Name:           params.Name,
		EncryptedURI:   encrypted,
		Safe:           params.Safe,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := c.repo.Save(ctx, conn); err != nil {
		return nil, err
	}
	return conn, nil
}

func (c connectionService) List(ctx context.Context, user *auth.User) ([]*types.Connection, error) {
	return c.repo.FindByUserID(ctx, user.ID)
}

func (c connectionService) Delete(ctx context.Context, user *auth.User, id uuid.UUID) error {
	conn, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if conn.UserID != user.ID {
		return types.ErrPermission
	}
	return c.repo.Delete(ctx, id)
}

func (c connectionService) ResolveURI(ctx context.Context, userID, orgID, connectionID uuid.UUID) (string, error) {
	conn, err := c.repo.FindByID(ctx, connectionID)
	if err != nil {
		return "", errors2.Wrap(types.ErrConnection, err.Error())
	}

	if !c.authorizer.CanBackup(ctx, userID, orgID) {
		return "", types.ErrPermission
	}
	if !c.authorizer.CanAccessConnection(ctx, userID, conn) {
		return "", types.ErrPermission
	}

	uri, err := c.encryptor.Decrypt(conn.EncryptedURI)
	if err != nil {
		return "", errors2.Wrap(types.ErrConnection, "failed to decrypt connection string")
	}
	return uri, nil
}
