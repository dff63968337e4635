package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalProvider stores blobs as files under a single directory. Locations
// are plain filesystem paths.
type LocalProvider struct {
	dir string
}

// NewLocalProvider creates a provider rooted at dir. The directory must
// exist and be writable; a missing directory surfaces as a write failure.
func NewLocalProvider(dir string) *LocalProvider {
	return &LocalProvider{dir: dir}
}

// Save writes the blob to a uniquely named file under the provider's
// directory and returns its path.
func (p *LocalProvider) Save(ctx context.Context, r io.Reader, size int64) (string, error) {
	path := filepath.Join(p.dir, objectName())

	dest, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file %s: %w", path, err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file %s: %w", path, err)
	}
	return path, nil
}

// Open opens the file at location.
func (p *LocalProvider) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", location, err)
	}
	return f, nil
}

// Remove deletes the file at location.
func (p *LocalProvider) Remove(ctx context.Context, location string) error {
	if err := os.Remove(location); err != nil {
		return fmt.Errorf("failed to remove %s: %w", location, err)
	}
	return nil
}
