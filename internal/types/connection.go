package types

import (
	"time"

	"github.com/google/uuid"
)

// Connection is a stored MongoDB endpoint. The connection string is kept
// encrypted at rest and only decrypted inside a backup run or an explicit
// owner request.
type Connection struct {
	ID             uuid.UUID `json:"id" gorm:"primaryKey"`
	UserID         uuid.UUID `json:"user_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	EncryptedURI   string    `json:"-"`

	// Safe marks the connection as usable by non-owner organization
	// members for backups.
	Safe bool `json:"safe"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
