package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps uploads in a directory tree under baseDir. It backs the
// listing image pipeline in development and single-node deployments.
type LocalStorage struct {
	baseDir string
}

func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", baseDir, err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// resolve maps a storage key like "listings/ab/uuid.jpg" onto the disk and
// rejects keys that would escape the upload directory.
func (s *LocalStorage) resolve(path string) (string, error) {
	full := filepath.Join(s.baseDir, filepath.FromSlash(path))
	base := filepath.Clean(s.baseDir)
	if full == base || !strings.HasPrefix(full, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage path %q escapes upload dir", path)
	}
	return full, nil
}

func (s *LocalStorage) Save(ctx context.Context, path string, content io.Reader) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}

	file, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return fmt.Errorf("write image file: %w", err)
	}
	return nil
}

func (s *LocalStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("open image file: %w", err)
	}
	return file, nil
}

func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image file: %w", err)
	}
	return nil
}
