package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/prodshot/prodshot/internal/filex"
)

// DiskStore keeps blobs as flat files in a single directory. Names are
// always server-generated, so no path sanitization beyond Base is needed.
type DiskStore struct {
	dir string
}

// NewDiskStore ensures dir exists and returns a store rooted there.
func NewDiskStore(dir string) (*DiskStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("image dir: %w", err)
	}
	return &DiskStore{dir: abs}, nil
}

func (s *DiskStore) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *DiskStore) Save(ctx context.Context, name string, data []byte) error {
	if err := os.WriteFile(s.path(name), data, 0o660); err != nil {
		return fmt.Errorf("write blob %s: %w", name, err)
	}
	return nil
}

func (s *DiskStore) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("read blob %s: %w", name, err)
	}
	return data, nil
}

func (s *DiskStore) Delete(ctx context.Context, name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove blob %s: %w", name, err)
	}
	return nil
}
