// Package artifacts writes task artifacts under a task directory.
package artifacts

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/zerr"
)

// Writer implements ports.ArtifactWriter. Names are slash-separated paths relative to the task
// directory and may not escape it.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteCSV writes a header and rows as comma-separated values.
func (w *Writer) WriteCSV(dir, name string, header []string, rows [][]string) error {
	return w.write(dir, name, func(f *os.File) error {
		cw := csv.NewWriter(f)
		if err := cw.Write(header); err != nil {
			return err
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
		return cw.Error()
	})
}

// WriteJSON writes v as indented JSON.
func (w *Writer) WriteJSON(dir, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrArtifactWriteFailed, err), "artifact", name)
	}
	data = append(data, '\n')
	return w.write(dir, name, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
}

// WriteText writes text verbatim.
func (w *Writer) WriteText(dir, name, text string) error {
	return w.write(dir, name, func(f *os.File) error {
		_, err := f.WriteString(text)
		return err
	})
}

func (w *Writer) write(dir, name string, fill func(*os.File) error) error {
	path, err := resolve(dir, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrArtifactWriteFailed, err), "path", path)
	}
	//nolint:gosec // Path is confined to the task directory by resolve
	f, err := os.Create(path)
	if err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrArtifactWriteFailed, err), "path", path)
	}
	if err := errors.Join(fill(f), f.Close()); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrArtifactWriteFailed, err), "path", path)
	}
	return nil
}

// resolve joins name onto dir and rejects names leaving dir.
func resolve(dir, name string) (string, error) {
	if name == "" || filepath.IsAbs(name) {
		return "", zerr.With(zerr.With(zerr.Wrap(domain.ErrArtifactOutsideDir, name), "artifact", name), "dir", dir)
	}
	path := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", zerr.With(zerr.With(zerr.Wrap(domain.ErrArtifactOutsideDir, name), "artifact", name), "dir", dir)
	}
	return path, nil
}
