package persist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStorage keeps one JSON file per key under a root directory.
// Writes go through a temp file and rename, so readers never observe a
// partial snapshot.
type FileStorage struct {
	root string
}

// NewFileStorage creates a FileStorage rooted at dir. The directory is
// created on first Save.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{root: dir}
}

func (f *FileStorage) path(key string) string {
	return filepath.Join(f.root, key+".json")
}

// Save writes data under key.
func (f *FileStorage) Save(_ context.Context, key string, data []byte) error {
	if err := os.MkdirAll(f.root, 0o755); err != nil {
		return fmt.Errorf("persist: create storage dir: %w", err)
	}

	tmp, err := os.CreateTemp(f.root, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("persist: create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("persist: write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("persist: close snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("persist: install snapshot: %w", err)
	}
	return nil
}

// Load reads the value under key.
func (f *FileStorage) Load(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("persist: read snapshot: %w", err)
	}
	return data, true, nil
}
