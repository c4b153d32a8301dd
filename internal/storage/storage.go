package storage

import (
	"context"
	"io"

	"mongovault/internal/types"
)

type (
	// Storage is a backup destination. Upload consumes the archive stream
	// without buffering it whole; Delete is idempotent - removing an
	// artifact that is already gone is not an error.
	Storage interface {
		Upload(ctx context.Context, content io.Reader, filename, folderPath string) (*types.Artifact, error)
		Delete(ctx context.Context, artifactID string) error
	}

	// Factory resolves the destination for a schedule's storage kind.
	Factory interface {
		Get(kind types.StorageKind) (Storage, error)
	}
)
