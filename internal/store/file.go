package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

// FileStore keeps the collection in a single JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// EnsureExists writes an empty collection if the file is missing.
func (s *FileStore) EnsureExists() error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrRead, err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}

	return s.Save(context.Background(), &model.Collection{})
}

func (s *FileStore) Load(_ context.Context) (*model.Collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	return Decode(data)
}

// Save writes the document to a temporary file next to path and renames it
// over path, so readers see either the old or the new document in full.
func (s *FileStore) Save(_ context.Context, c *model.Collection) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	tmp := f.Name()

	_, err = f.Write(data)
	err = multierr.Combine(err, f.Chmod(0o644), f.Close())
	if err == nil {
		err = os.Rename(tmp, s.path)
	}
	if err != nil {
		_ = os.Remove(tmp)

		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	return nil
}
