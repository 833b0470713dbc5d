package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DiskStore writes uploaded blobs to a local directory under
// system-assigned unique names.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save streams r to a new blob and returns its name, path and size.
// The blob name keeps the original extension so downloads get a sane
// content type from the filesystem.
func (s *DiskStore) Save(r io.Reader, originalName string) (name, path string, size int64, err error) {
	name = uuid.New().String() + filepath.Ext(originalName)
	path = filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to create blob: %w", err)
	}

	size, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", "", 0, fmt.Errorf("failed to write blob: %w", err)
	}

	return name, path, size, nil
}

// Remove deletes a blob. A missing blob is not an error so that a
// dangling record can still be cleaned up.
func (s *DiskStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
