package storage

import (
	"context"
	"io"
)

// Storage abstracts where listing photos live. Paths are relative,
// forward-slash keys chosen by the caller; the local-disk backend maps them
// onto a directory tree, another backend could map them onto object keys.
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the file. Deleting a missing file is not an error, so
	// upload-failure cleanup can fire without checking what was written.
	Delete(ctx context.Context, path string) error
}
