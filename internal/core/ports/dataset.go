package ports

import "go.trai.ch/sift/internal/core/domain"

// DatasetLoader reads delimited tabular files.
//
//go:generate mockgen -source=dataset.go -destination=mocks/mock_dataset.go -package=mocks
type DatasetLoader interface {
	// Load reads the file at path and isolates its id, label and feature columns.
	Load(path string, opts domain.LoadOptions) (*domain.Dataset, error)

	// LoadFolds reads an (id, fold) table and returns the fold index of every listed id.
	// Duplicate ids are reported as a malformed fold assignment.
	LoadFolds(path string, delimiter rune, idColumn, foldColumn string) (map[string]int, error)

	// WriteFolds writes an (id, fold) table.
	WriteFolds(path string, delimiter rune, idColumn, foldColumn string, ids []string, folds domain.FoldAssignment) error
}
