package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"mongovault/internal/types"
)

const (
	backupBucket = "backups"
)

type (
	ObjectStorageCredentials struct {
		Endpoint, AccessKeyID, SecretKey, Region string
	}

	objectStorage struct {
		client *minio.Client
		region string
	}
)

func NewObjectStorage(cred ObjectStorageCredentials) (Storage, error) {
	mn, err := minio.New(cred.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cred.AccessKeyID, cred.SecretKey, ""),
		Secure: false,
		Region: cred.Region,
	})
	if err != nil {
		return nil, err
	}
	return &objectStorage{
		region: cred.Region,
		client: mn,
	}, nil
}

func (s objectStorage) Upload(ctx context.Context, content io.Reader, filename, folderPath string) (*types.Artifact, error) {
	if err := s.makeBucket(ctx); err != nil {
		return nil, err
	}

	location := path.Join(folderPath, filename)
	// Size -1 streams the archive in parts; the producer never knows the
	// total up front.
	info, err := s.client.PutObject(ctx, backupBucket, location, content, -1, minio.PutObjectOptions{
		ContentType: "application/zip",
	})
	if err != nil {
		return nil, err
	}
	return &types.Artifact{
		ID:   info.Key,
		Link: fmt.Sprintf("s3://%s/%s", backupBucket, info.Key),
	}, nil
}

func (s objectStorage) Delete(ctx context.Context, artifactID string) error {
	err := s.client.RemoveObject(ctx, backupBucket, artifactID, minio.RemoveObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if strings.EqualFold(resp.Code, "NoSuchKey") {
			return nil
		}
	}
	return err
}

func (s objectStorage) makeBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, backupBucket)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	return s.client.MakeBucket(ctx, backupBucket, minio.MakeBucketOptions{
		Region: s.region,
	})
}
