package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrymomot/mailkit/core/template"
)

// DefaultFilename is the template collection file used when no path is given.
const DefaultFilename = "templates.json"

// FileStore keeps the template collection in a single pretty-printed JSON
// file. A missing file reads as an empty collection so a fresh installation
// needs no setup step.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path. An empty path uses
// DefaultFilename in the working directory.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFilename
	}
	return &FileStore{path: path}
}

var _ Store = (*FileStore)(nil)

// Load reads the template collection. A missing file yields an empty
// collection; a present but unparsable file is an error rather than silent
// data loss.
func (s *FileStore) Load(_ context.Context) ([]*template.Template, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, s.path, err)
	}

	var templates []*template.Template
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, s.path, err)
	}
	return templates, nil
}

// Save writes the collection atomically: the JSON is written to a temp file
// in the same directory and renamed over the target, so a crash mid-write
// never leaves a truncated collection behind.
func (s *FileStore) Save(_ context.Context, templates []*template.Template) error {
	if templates == nil {
		templates = []*template.Template{}
	}

	data, err := json.MarshalIndent(templates, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	return nil
}
