package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"mongovault/internal/types"
)

type driveStorage struct {
	service *drive.Service
}

// NewDriveStorage builds a Google Drive destination from a service account
// credentials file. Folder paths are resolved segment by segment and
// created on demand.
func NewDriveStorage(ctx context.Context, credentialsFile string) (Storage, error) {
	service, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create drive service")
	}
	return &driveStorage{service: service}, nil
}

func (g *driveStorage) Upload(ctx context.Context, content io.Reader, filename, folderPath string) (*types.Artifact, error) {
	parentID, err := g.resolveFolder(ctx, folderPath)
	if err != nil {
		return nil, err
	}

	meta := &drive.File{Name: filename}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}

	created, err := g.service.Files.Create(meta).
		Media(content).
		Fields("id, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload to drive")
	}

	return &types.Artifact{
		ID:   created.Id,
		Link: created.WebViewLink,
	}, nil
}

func (g *driveStorage) Delete(ctx context.Context, artifactID string) error {
	err := g.service.Files.Delete(artifactID).Context(ctx).Do()
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 404 {
		return nil
	}
	return err
}

func (g *driveStorage) resolveFolder(ctx context.Context, folderPath string) (string, error) {
	parentID := ""
	for _, segment := range splitFolderPath(folderPath) {
		id, err := g.findFolder(ctx, segment, parentID)
		if err != nil {
			return "", err
		}
		if id == "" {
			id, err = g.createFolder(ctx, segment, parentID)
			if err != nil {
				return "", err
			}
		}
		parentID = id
	}
	return parentID, nil
}

func (g *driveStorage) findFolder(ctx context.Context, name, parentID string) (string, error) {
	query := fmt.Sprintf("name='%s' and mimeType='application/vnd.google-apps.folder' and trashed=false", name)
	if parentID != "" {
		query += fmt.Sprintf(" and '%s' in parents", parentID)
	}

	list, err := g.service.Files.List().
		Q(query).
		Fields("files(id)").
		Context(ctx).
		Do()
	if err != nil {
		return "", errors.Wrap(err, "failed to look up drive folder")
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

func (g *driveStorage) createFolder(ctx context.Context, name, parentID string) (string, error) {
	meta := &drive.File{
		Name:     name,
		MimeType: "application/vnd.google-apps.folder",
	}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}

	created, err := g.service.Files.Create(meta).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", errors.Wrap(err, "failed to create drive folder")
	}
	return created.Id, nil
}

func splitFolderPath(folderPath string) []string {
	parts := strings.Split(folderPath, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
