// Package storage keeps uploaded files.  Paths handed out by Save are
// relative to the storage root and are what the database records.
package storage

import (
	"context"
	"io"
)

// Storage is the file store used by upload handlers.
type Storage interface {
	// Save writes r under dir as "<userID>_<base name>" and returns the
	// relative path.
	Save(ctx context.Context, dir string, userID int64, filename string, r io.Reader) (string, error)
	// Delete removes a stored file.  Missing files are not an error.
	Delete(ctx context.Context, relPath string) error
}
