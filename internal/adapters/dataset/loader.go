// Package dataset reads and writes delimited tabular files.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultDelimiter separates fields when no delimiter is configured.
const DefaultDelimiter = ','

// missing lists the cell spellings read as a missing feature value.
var missing = []string{"", "na", "nan", "null"}

// Loader implements ports.DatasetLoader for delimited text files.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the file at path. Missing feature cells become NaN; labels must be integers.
func (l *Loader) Load(path string, opts domain.LoadOptions) (*domain.Dataset, error) {
	header, records, err := readTable(path, opts.Delimiter)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrEmptyDataset, path+" has no rows"), "file", path)
	}

	idPos, err := columnIndex(path, header, opts.IDColumn)
	if err != nil {
		return nil, err
	}
	labelPos := -1
	if opts.LabelColumn != "" {
		if labelPos, err = columnIndex(path, header, opts.LabelColumn); err != nil {
			return nil, err
		}
	}

	featureNames := opts.FeatureColumns
	if featureNames == nil {
		for j, name := range header {
			if j != idPos && j != labelPos {
				featureNames = append(featureNames, name)
			}
		}
	}
	featurePos := make([]int, len(featureNames))
	for i, name := range featureNames {
		if featurePos[i], err = columnIndex(path, header, name); err != nil {
			return nil, err
		}
	}

	data := &domain.Dataset{
		IDs:      make([]string, len(records)),
		Features: domain.Features{Columns: slices.Clone(featureNames), Rows: make([][]float64, len(records))},
	}
	if labelPos >= 0 {
		data.Labels = make([]int, len(records))
	}
	seen := make(map[string]int, len(records))

	for i, rec := range records {
		line := i + 2
		id := strings.TrimSpace(rec[idPos])
		if id == "" {
			return nil, cellError(domain.ErrInvalidValue, path, line, opts.IDColumn, "empty id")
		}
		if first, dup := seen[id]; dup {
			err := zerr.Wrap(domain.ErrDuplicateID, fmt.Sprintf("id %q on line %d first appears on line %d", id, line, first))
			return nil, zerr.With(zerr.With(err, "file", path), "id", id)
		}
		seen[id] = line
		data.IDs[i] = id

		if labelPos >= 0 {
			label, err := parseLabel(rec[labelPos])
			if err != nil {
				return nil, cellError(domain.ErrInvalidValue, path, line, opts.LabelColumn, rec[labelPos])
			}
			data.Labels[i] = label
		}

		row := make([]float64, len(featurePos))
		for j, pos := range featurePos {
			v, err := parseFeature(rec[pos])
			if err != nil {
				return nil, cellError(domain.ErrInvalidValue, path, line, featureNames[j], rec[pos])
			}
			row[j] = v
		}
		data.Features.Rows[i] = row
	}
	return data, nil
}

// LoadFolds reads an (id, fold) table.
func (l *Loader) LoadFolds(path string, delimiter rune, idColumn, foldColumn string) (map[string]int, error) {
	header, records, err := readTable(path, delimiter)
	if err != nil {
		return nil, err
	}
	idPos, err := columnIndex(path, header, idColumn)
	if err != nil {
		return nil, err
	}
	foldPos, err := columnIndex(path, header, foldColumn)
	if err != nil {
		return nil, err
	}

	folds := make(map[string]int, len(records))
	for i, rec := range records {
		line := i + 2
		id := strings.TrimSpace(rec[idPos])
		if _, dup := folds[id]; dup {
			err := zerr.Wrap(domain.ErrMalformedFolds, fmt.Sprintf("id %q is listed more than once (line %d)", id, line))
			return nil, zerr.With(zerr.With(err, "file", path), "id", id)
		}
		k, err := strconv.Atoi(strings.TrimSpace(rec[foldPos]))
		if err != nil || k < 0 {
			return nil, cellError(domain.ErrMalformedFolds, path, line, foldColumn, rec[foldPos])
		}
		folds[id] = k
	}
	return folds, nil
}

// WriteFolds writes an (id, fold) table, creating the parent directory if needed.
func (l *Loader) WriteFolds(
	path string,
	delimiter rune,
	idColumn, foldColumn string,
	ids []string,
	folds domain.FoldAssignment,
) error {
	if len(ids) != len(folds) {
		err := zerr.Wrap(domain.ErrShapeMismatch, fmt.Sprintf("%d ids for %d fold indices", len(ids), len(folds)))
		return zerr.With(err, "file", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrArtifactWriteFailed, err), "path", path)
	}
	//nolint:gosec // Path comes from the command line
	f, err := os.Create(path)
	if err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrArtifactWriteFailed, err), "path", path)
	}

	w := csv.NewWriter(f)
	w.Comma = delimiterOrDefault(delimiter)
	_ = w.Write([]string{idColumn, foldColumn})
	for i, id := range ids {
		_ = w.Write([]string{id, strconv.Itoa(folds[i])})
	}
	w.Flush()
	if err := errors.Join(w.Error(), f.Close()); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrArtifactWriteFailed, err), "path", path)
	}
	return nil
}

func readTable(path string, delimiter rune) ([]string, [][]string, error) {
	//nolint:gosec // Path comes from the experiment configuration
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrDatasetReadFailed, err), "file", path)
	}
	defer func() {
		_ = f.Close()
	}()

	r := csv.NewReader(f)
	r.Comma = delimiterOrDefault(delimiter)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrEmptyDataset, "file has no header"), "file", path)
	}
	if err != nil {
		return nil, nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrDatasetReadFailed, err), "file", path)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrDatasetReadFailed, err), "file", path)
	}
	return header, records, nil
}

func columnIndex(path string, header []string, name string) (int, error) {
	pos := slices.Index(header, name)
	if pos < 0 {
		err := zerr.Wrap(domain.ErrMissingColumn, fmt.Sprintf("column %q not found in %s", name, path))
		return -1, zerr.With(zerr.With(zerr.With(err, "file", path), "column", name), "expected", header)
	}
	return pos, nil
}

func parseFeature(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if slices.Contains(missing, strings.ToLower(cell)) {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

func parseLabel(cell string) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return int(v), nil
}

func cellError(sentinel error, path string, line int, column, value string) error {
	err := zerr.Wrap(sentinel, fmt.Sprintf("%s:%d: column %q has value %q", path, line, column, value))
	return zerr.With(zerr.With(zerr.With(err, "file", path), "line", line), "column", column)
}

func delimiterOrDefault(d rune) rune {
	if d == 0 {
		return DefaultDelimiter
	}
	return d
}
