package storage

import (
	"context"
	"io"
)

// FileStore persists opaque binary artifacts (submission attachments and
// generated confirmation documents) out-of-band from the database. Records
// reference stored files by the returned path.
type FileStore interface {
	// Save writes the content under key and returns the storage path and
	// the number of bytes written. Keys may contain slashes to group files
	// by submission.
	Save(ctx context.Context, key string, content io.Reader) (string, int64, error)

	// Open returns a reader for a previously stored path.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a stored file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error
}
