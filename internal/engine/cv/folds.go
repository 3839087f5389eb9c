// Package cv implements fold strategies, per-fold execution and threshold metric aggregation.
package cv

import (
	"fmt"
	"math/rand/v2"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
	"go.trai.ch/zerr"
)

// FoldStrategy partitions a labelled data set into cross-validation folds.
type FoldStrategy interface {
	// Assign returns the fold index of every sample of data.
	Assign(data *domain.Dataset) (domain.FoldAssignment, error)

	// Describe returns a JSON-friendly view for run manifests.
	Describe() map[string]any
}

// Splits assigns folds with strategy and expands them into train/validation index pairs.
func Splits(strategy FoldStrategy, data *domain.Dataset) ([]domain.Split, error) {
	if strategy == nil {
		return nil, domain.ErrFoldStrategyMissing
	}
	assignment, err := strategy.Assign(data)
	if err != nil {
		return nil, err
	}
	if err := assignment.Validate(data.Len()); err != nil {
		return nil, err
	}
	return assignment.Splits()
}

// StratifiedFolds balances the label distribution of every fold.
type StratifiedFolds struct {
	total   int
	shuffle bool
	seed    int64
}

// NewStratifiedFolds creates a stratified strategy producing total folds.
// When shuffle is set, sample order within each class is permuted under seed.
func NewStratifiedFolds(total int, shuffle bool, seed int64) (*StratifiedFolds, error) {
	if total < 2 {
		err := zerr.Wrap(domain.ErrInvalidFoldCount, fmt.Sprintf("stratified folds: total_folds must be >= 2, got %d", total))
		return nil, zerr.With(zerr.With(err, "parameter", "total_folds"), "expected", ">= 2")
	}
	return &StratifiedFolds{total: total, shuffle: shuffle, seed: seed}, nil
}

// Total returns the number of folds produced.
func (s *StratifiedFolds) Total() int {
	return s.total
}

// Assign deals the samples of each class round-robin over the folds.
// Classes are dealt one after the other, so every fold receives either the floor or the
// ceiling of its share of each class.
func (s *StratifiedFolds) Assign(data *domain.Dataset) (domain.FoldAssignment, error) {
	if err := data.CheckBinaryLabels(); err != nil {
		return nil, err
	}
	n := data.Len()
	if s.total > n {
		err := zerr.Wrap(domain.ErrInvalidFoldCount,
			fmt.Sprintf("stratified folds: total_folds %d exceeds the %d training samples", s.total, n))
		return nil, zerr.With(zerr.With(err, "parameter", "total_folds"), "expected", fmt.Sprintf("<= %d", n))
	}

	byClass := [2][]int{}
	for i, y := range data.Labels {
		byClass[y] = append(byClass[y], i)
	}

	if s.shuffle {
		rng := rand.New(rand.NewPCG(uint64(s.seed), uint64(s.seed)))
		for _, indices := range byClass {
			rng.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
	}

	assignment := make(domain.FoldAssignment, n)
	pos := 0
	for _, indices := range byClass {
		for _, idx := range indices {
			assignment[idx] = pos % s.total
			pos++
		}
	}
	return assignment, nil
}

// Describe implements FoldStrategy.
func (s *StratifiedFolds) Describe() map[string]any {
	return map[string]any{
		"strategy":    "stratified",
		"total_folds": s.total,
		"shuffle":     s.shuffle,
		"seed":        s.seed,
	}
}

// CustomFolds reads an externally authored (id, fold) table.
type CustomFolds struct {
	loader     ports.DatasetLoader
	path       string
	delimiter  rune
	idColumn   string
	foldColumn string
}

// NewCustomFolds creates a strategy reading fold indices from the file at path.
func NewCustomFolds(loader ports.DatasetLoader, path string, delimiter rune, idColumn, foldColumn string) (*CustomFolds, error) {
	if path == "" {
		err := zerr.Wrap(domain.ErrMissingArgument, "custom folds: folds_file_path is required")
		return nil, zerr.With(err, "parameter", "folds_file_path")
	}
	if idColumn == "" || foldColumn == "" {
		err := zerr.Wrap(domain.ErrMissingArgument, "custom folds: id and fold column names are required")
		return nil, zerr.With(err, "parameter", "fold_id_column")
	}
	return &CustomFolds{
		loader:     loader,
		path:       path,
		delimiter:  delimiter,
		idColumn:   idColumn,
		foldColumn: foldColumn,
	}, nil
}

// Assign maps every sample id of data to the fold listed in the file.
// A training id absent from the file, or a file id absent from the training data, is a
// malformed fold assignment.
func (c *CustomFolds) Assign(data *domain.Dataset) (domain.FoldAssignment, error) {
	folds, err := c.loader.LoadFolds(c.path, c.delimiter, c.idColumn, c.foldColumn)
	if err != nil {
		return nil, err
	}

	assignment := make(domain.FoldAssignment, data.Len())
	for i, id := range data.IDs {
		k, ok := folds[id]
		if !ok {
			err := zerr.Wrap(domain.ErrMalformedFolds, fmt.Sprintf("custom folds: training id %q is missing from %s", id, c.path))
			return nil, zerr.With(zerr.With(err, "id", id), "file", c.path)
		}
		assignment[i] = k
	}
	if len(folds) != data.Len() {
		known := make(map[string]struct{}, data.Len())
		for _, id := range data.IDs {
			known[id] = struct{}{}
		}
		for id := range folds {
			if _, ok := known[id]; !ok {
				err := zerr.Wrap(domain.ErrMalformedFolds, fmt.Sprintf("custom folds: id %q is not a training sample", id))
				return nil, zerr.With(zerr.With(err, "id", id), "file", c.path)
			}
		}
	}
	return assignment, nil
}

// Inputs returns the fold file so runs can fingerprint it.
func (c *CustomFolds) Inputs() []string {
	return []string{c.path}
}

// Describe implements FoldStrategy.
func (c *CustomFolds) Describe() map[string]any {
	return map[string]any{
		"strategy":        "custom",
		"folds_file_path": c.path,
		"fold_id_column":  c.idColumn,
		"fold_column":     c.foldColumn,
	}
}
