package source

import (
	"context"

	"mongovault/internal/archive"
)

type (
	// Source is a live handle to one backup's origin database. Each run
	// opens its own and must close it; nothing is pooled across runs.
	Source interface {
		ListCollections(ctx context.Context, database string) ([]string, error)
		ReadAll(ctx context.Context, database, collection string) (archive.Iterator, error)
		Close(ctx context.Context) error
	}

	// Factory opens a Source from a plaintext connection string. The
	// executor owns acquisition and release per execution.
	Factory interface {
		Open(ctx context.Context, uri string) (Source, error)
	}
)
