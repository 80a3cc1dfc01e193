package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"dyno/internal/ml"

	"github.com/google/uuid"
)

// FileStore keeps the bundle as one file on local disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Location() string {
	abs, err := filepath.Abs(s.path)
	if err != nil {
		return s.path
	}
	return abs
}

// Save writes to a sibling temp file, syncs it and renames it over the
// target, so readers only ever open a complete bundle.
func (s *FileStore) Save(ctx context.Context, b *ml.Bundle) error {
	data, err := ml.MarshalBundle(b)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create bundle dir: %w", err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(s.path), uuid.NewString()))
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create temp bundle: %w", err)
	}
	defer os.Remove(tmp)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp bundle: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp bundle: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp bundle: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("swap bundle: %w", err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context) (*ml.Bundle, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ml.ErrBundleMissing
		}
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	return ml.UnmarshalBundle(data)
}
