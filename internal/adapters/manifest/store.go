// Package manifest stores the run manifest as JSON at the root of each experiment directory.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.ManifestStore with one file per run root.
type Store struct{}

// NewStore creates a new ManifestStore.
func NewStore() *Store {
	return &Store{}
}

// Get reads the manifest of the run rooted at root.
func (s *Store) Get(root string) (*domain.RunManifest, error) {
	filename := s.filename(root)
	//nolint:gosec // Path is constructed from the run root
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrManifestReadFailed, err), "path", filename)
	}

	var m domain.RunManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrManifestReadFailed, err), "path", filename)
	}
	return &m, nil
}

// Put writes the manifest, replacing the previous version atomically.
func (s *Store) Put(root string, m domain.RunManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrManifestWriteFailed, err)
	}
	data = append(data, '\n')

	filename := s.filename(root)
	if err := os.MkdirAll(root, domain.DirPerm); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrManifestWriteFailed, err), "path", root)
	}
	tmp := filename + ".tmp"
	//nolint:gosec // Path is constructed from the run root
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrManifestWriteFailed, err), "path", tmp)
	}
	if err := os.Rename(tmp, filename); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrManifestWriteFailed, err), "path", filename)
	}
	return nil
}

func (s *Store) filename(root string) string {
	return filepath.Join(root, domain.ManifestFileName)
}
