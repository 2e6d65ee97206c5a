package drive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"product-media-pipeline/domain/distribution"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Transient store failures are retried with a fixed delay before the
// error is surfaced to the processor.
const (
	retryAttempts     = 3
	defaultRetryDelay = 2 * time.Second
)

// DriveService defines the interface for Google Drive API operations
// This allows mocking the Google Drive API in tests
type DriveService interface {
	ListFiles(ctx context.Context, query string, fields string) ([]*drive.File, error)
	CreateFolder(ctx context.Context, parentID, name string) (*drive.File, error)
	CreateFile(ctx context.Context, folderID, name, mimeType string, data []byte) (*drive.File, error)
	UpdateFile(ctx context.Context, fileID, mimeType string, data []byte) (*drive.File, error)
}

// GoogleDriveService is the production implementation using the Google Drive API
type GoogleDriveService struct {
	service *drive.Service
}

// ListFiles lists files matching the query
func (s *GoogleDriveService) ListFiles(ctx context.Context, query string, fields string) ([]*drive.File, error) {
	r, err := s.service.Files.List().
		Q(query).
		Fields(googleapi.Field("files(" + fields + ")")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return r.Files, nil
}

// CreateFolder creates a folder under the given parent
func (s *GoogleDriveService) CreateFolder(ctx context.Context, parentID, name string) (*drive.File, error) {
	meta := &drive.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{parentID},
	}
	return s.service.Files.Create(meta).Fields("id").Context(ctx).Do()
}

// CreateFile uploads a new file into the given folder
func (s *GoogleDriveService) CreateFile(ctx context.Context, folderID, name, mimeType string, data []byte) (*drive.File, error) {
	meta := &drive.File{
		Name:    name,
		Parents: []string{folderID},
	}
	return s.service.Files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields("id").
		Context(ctx).
		Do()
}

// UpdateFile replaces the content of an existing file
func (s *GoogleDriveService) UpdateFile(ctx context.Context, fileID, mimeType string, data []byte) (*drive.File, error) {
	return s.service.Files.Update(fileID, &drive.File{}).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields("id").
		Context(ctx).
		Do()
}

// Client implements distribution.RemoteStore using the Google Drive API
type Client struct {
	driveService DriveService
	retryDelay   time.Duration
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithDriveService sets a custom drive service (for testing)
func WithDriveService(svc DriveService) ClientOption {
	return func(c *Client) {
		c.driveService = svc
	}
}

// WithRetryDelay overrides the delay between retry attempts (for testing)
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// EnsureFolder implements distribution.RemoteStore. The folder is
// looked up before creating so repeated runs for the same product reuse
// the existing folder instead of creating duplicates.
func (c *Client) EnsureFolder(ctx context.Context, parentID, name string) (string, error) {
	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and '%s' in parents and trashed = false",
		escapeQuery(name), folderMimeType, parentID)

	var folderID string
	err := c.withRetries(ctx, func() error {
		files, err := c.driveService.ListFiles(ctx, query, "id")
		if err != nil {
			return err
		}
		if len(files) > 0 {
			folderID = files[0].Id
			return nil
		}
		created, err := c.driveService.CreateFolder(ctx, parentID, name)
		if err != nil {
			return err
		}
		folderID = created.Id
		return nil
	})
	if err != nil {
		return "", classifyWriteError("ensure folder", name, err)
	}
	return folderID, nil
}

// UploadFile implements distribution.RemoteStore. A file with the same
// name in the folder is overwritten in place rather than duplicated.
func (c *Client) UploadFile(ctx context.Context, folderID, filename string, data []byte, mimeType string) (string, error) {
	query := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false",
		escapeQuery(filename), folderID)

	var fileID string
	err := c.withRetries(ctx, func() error {
		existing, err := c.driveService.ListFiles(ctx, query, "id")
		if err != nil {
			return err
		}
		var f *drive.File
		if len(existing) > 0 {
			f, err = c.driveService.UpdateFile(ctx, existing[0].Id, mimeType, data)
		} else {
			f, err = c.driveService.CreateFile(ctx, folderID, filename, mimeType, data)
		}
		if err != nil {
			return err
		}
		fileID = f.Id
		return nil
	})
	if err != nil {
		return "", classifyWriteError("upload file", filename, err)
	}
	return fileID, nil
}

// withRetries runs fn up to retryAttempts times, waiting between
// attempts, as long as the failure looks transient.
func (c *Client) withRetries(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if classifyKind(lastErr) != distribution.WriteErrTransient {
			return lastErr
		}
		if attempt < retryAttempts {
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return lastErr
}

// escapeQuery escapes single quotes for embedding in a Drive query
func escapeQuery(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// Ensure Client implements distribution.RemoteStore
var _ distribution.RemoteStore = (*Client)(nil)
