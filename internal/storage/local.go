package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrBadFilename is returned when nothing usable is left of a filename.
var ErrBadFilename = errors.New("invalid file name")

// Local stores files on the local filesystem below BaseDir.
type Local struct {
	BaseDir string
}

// NewLocal creates the base directory if it does not exist.
func NewLocal(baseDir string) (*Local, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Local{BaseDir: baseDir}, nil
}

// Save copies r to <BaseDir>/<dir>/<userID>_<name>.  A file with the same
// name is overwritten.
func (l *Local) Save(ctx context.Context, dir string, userID int64, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := cleanName(filename)
	if name == "" {
		return "", ErrBadFilename
	}
	rel := path.Join(cleanName(dir), fmt.Sprintf("%d_%s", userID, name))
	full := filepath.Join(l.BaseDir, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}
	return rel, nil
}

// Delete removes relPath.  Paths escaping BaseDir are refused.
func (l *Local) Delete(ctx context.Context, relPath string) error {
	if relPath == "" {
		return nil
	}
	clean := path.Clean("/" + filepath.ToSlash(relPath))
	full := filepath.Join(l.BaseDir, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// cleanName keeps only the last element of a client supplied name.
func cleanName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := path.Base(name)
	switch base {
	case ".", "..", "/":
		return ""
	}
	return base
}
