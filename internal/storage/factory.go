package storage

import (
	"context"

	"github.com/pkg/errors"

	"mongovault/internal/config"
	"mongovault/internal/types"
)

type factory struct {
	destinations map[types.StorageKind]Storage
}

// NewFactory wires every destination the configuration provides. A
// schedule pointing at an unconfigured kind fails at run time with a clear
// error instead of at startup.
func NewFactory(ctx context.Context, cfg config.Config) (Factory, error) {
	destinations := map[types.StorageKind]Storage{
		types.StorageKindFS: NewFileStorage(""),
	}

	if cfg.S3Endpoint != "" {
		st, err := NewObjectStorage(ObjectStorageCredentials{
			Endpoint:    cfg.S3Endpoint,
			AccessKeyID: cfg.S3AccessKeyID,
			SecretKey:   cfg.S3SecretKey,
			Region:      cfg.S3Region,
		})
		if err != nil {
			return nil, errors.Wrap(err, "invalid object storage credentials")
		}
		destinations[types.StorageKindS3] = st
	}

	if cfg.DriveCredentialsFile != "" {
		st, err := NewDriveStorage(ctx, cfg.DriveCredentialsFile)
		if err != nil {
			return nil, err
		}
		destinations[types.StorageKindDrive] = st
	}

	return &factory{destinations: destinations}, nil
}

func (f *factory) Get(kind types.StorageKind) (Storage, error) {
	st, ok := f.destinations[kind]
	if !ok {
		return nil, errors.Errorf("storage kind %q is not configured", kind)
	}
	return st, nil
}
