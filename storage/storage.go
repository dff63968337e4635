package storage

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Provider abstracts where uploaded audio blobs live. Locations returned
// by Save are opaque strings that only the provider that produced them
// can resolve.
type Provider interface {
	// Save stores the blob and returns its location.
	Save(ctx context.Context, r io.Reader, size int64) (string, error)
	// Open returns the blob at location for reading.
	Open(ctx context.Context, location string) (io.ReadCloser, error)
	// Remove deletes the blob at location.
	Remove(ctx context.Context, location string) error
}

// objectName generates a unique filename for an uploaded blob. The upload
// field name prefixes it, multer-style, so files are recognizable on disk.
func objectName() string {
	return "mp3-" + uuid.NewString() + ".mp3"
}
