package distribution

import "context"

// RemoteStore defines the interface for the hierarchical remote file
// destination. This is a port that can be implemented by different
// infrastructure adapters.
type RemoteStore interface {
	// EnsureFolder returns the id of the folder with the given name
	// under parentID, creating it only if it does not already exist.
	// Safe to call repeatedly for the same product across retried runs.
	EnsureFolder(ctx context.Context, parentID, name string) (string, error)

	// UploadFile writes data as filename inside the folder, overwriting
	// a file of the same name if one exists. Failures are reported as
	// *RemoteWriteError.
	UploadFile(ctx context.Context, folderID, filename string, data []byte, mimeType string) (string, error)
}

// MIME type constants for the artifacts this pipeline uploads
const (
	MimeTypeMP4  = "video/mp4"
	MimeTypeText = "text/plain"
)
