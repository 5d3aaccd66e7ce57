// Package storage holds the blob backends for generated image bytes.
// The database keeps only index records; the bytes live behind a BlobStore.
package storage

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned when the named blob does not exist.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore persists image bytes under server-generated names.
type BlobStore interface {
	// Save writes data under name, overwriting any previous content.
	Save(ctx context.Context, name string, data []byte) error
	// Load returns the blob bytes or ErrBlobNotFound.
	Load(ctx context.Context, name string) ([]byte, error)
	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
}
