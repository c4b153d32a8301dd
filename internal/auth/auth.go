package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/google/uuid"

	"mongovault/internal/config"
	"mongovault/internal/types"
)

type (
	// TokenVerifier resolves a bearer token to a user, or nil when the
	// token is unknown.
	TokenVerifier interface {
		ResolveUser(ctx context.Context, token string) (*User, error)
	}

	// Authorizer answers the permission questions the backup engine asks
	// before touching a connection.
	Authorizer interface {
		CanBackup(ctx context.Context, userID, orgID uuid.UUID) bool
		CanAccessConnection(ctx context.Context, userID uuid.UUID, conn *types.Connection) bool
		VerifyBackupPassword(password string) bool
	}

	User struct {
		ID             uuid.UUID
		OrganizationID uuid.UUID
	}
)

// accessKeyAuth is the single-operator implementation: one master access
// key maps to one admin identity, and the backup password is checked
// against a configured SHA-256 hash. Multi-user identity lives in an
// external system behind the same interfaces.
type accessKeyAuth struct {
	cfg   config.Config
	admin User
}

func NewAccessKeyAuth(cfg config.Config) (TokenVerifier, Authorizer) {
	a := &accessKeyAuth{
		cfg: cfg,
		admin: User{
			ID:             uuid.NewSHA1(uuid.NameSpaceOID, []byte("mongovault-admin")),
			OrganizationID: uuid.NewSHA1(uuid.NameSpaceOID, []byte("mongovault-org")),
		},
	}
	return a, a
}

func (a *accessKeyAuth) ResolveUser(ctx context.Context, token string) (*User, error) {
	if a.cfg.AccessKey == "" {
		return nil, nil
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(a.cfg.AccessKey)) != 1 {
		return nil, nil
	}
	admin := a.admin
	return &admin, nil
}

func (a *accessKeyAuth) CanBackup(ctx context.Context, userID, orgID uuid.UUID) bool {
	return userID == a.admin.ID
}

func (a *accessKeyAuth) CanAccessConnection(ctx context.Context, userID uuid.UUID, conn *types.Connection) bool {
	if conn.UserID == userID {
		return true
	}
	// Non-owners in the same organization may only use connections the
	// owner marked safe.
	return conn.Safe && conn.OrganizationID == a.admin.OrganizationID
}

func (a *accessKeyAuth) VerifyBackupPassword(password string) bool {
	if a.cfg.BackupPasswordHash == "" {
		return false
	}
	sum := sha256.Sum256([]byte(password))
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(a.cfg.BackupPasswordHash)) == 1
}
