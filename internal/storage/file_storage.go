package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"mongovault/internal/types"
)

type fileStorage struct {
	baseDir string
}

// NewFileStorage keeps artifacts on the local filesystem. Meant for
// development and single-host setups.
func NewFileStorage(baseDir string) Storage {
	if baseDir == "" {
		baseDir = BackupDir
	}
	return &fileStorage{baseDir: baseDir}
}

func (f fileStorage) Upload(ctx context.Context, content io.Reader, filename, folderPath string) (*types.Artifact, error) {
	location := filepath.Join(f.baseDir, folderPath, filename)
	if err := os.MkdirAll(filepath.Dir(location), 0700); err != nil {
		return nil, err
	}

	fi, err := os.Create(location)
	if err != nil {
		return nil, err
	}
	defer fi.Close()

	if _, err = io.Copy(fi, content); err != nil {
		return nil, err
	}
	return &types.Artifact{
		ID:   location,
		Link: "file://" + location,
	}, nil
}

func (f fileStorage) Delete(ctx context.Context, artifactID string) error {
	err := os.Remove(artifactID)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
