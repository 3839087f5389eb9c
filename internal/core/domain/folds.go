package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

// Split is one cross-validation fold: the validation indices of fold Fold and their complement.
type Split struct {
	Fold       int
	Train      []int
	Validation []int
}

// FoldAssignment maps each sample position of a data set to its fold index.
type FoldAssignment []int

// Total returns the number of folds, i.e. the highest fold index plus one.
func (a FoldAssignment) Total() int {
	total := 0
	for _, k := range a {
		if k+1 > total {
			total = k + 1
		}
	}
	return total
}

// Validate checks that the assignment covers exactly n samples and that fold indices are
// contiguous from 0 with no empty fold.
func (a FoldAssignment) Validate(n int) error {
	if len(a) != n {
		err := zerr.Wrap(ErrMalformedFolds, fmt.Sprintf("fold assignment covers %d samples, expected %d", len(a), n))
		return zerr.With(err, "expected", n)
	}
	total := a.Total()
	counts := make([]int, total)
	for i, k := range a {
		if k < 0 {
			return zerr.With(zerr.Wrap(ErrMalformedFolds, fmt.Sprintf("sample %d has negative fold index %d", i, k)), "fold", k)
		}
		counts[k]++
	}
	for k, c := range counts {
		if c == 0 {
			err := zerr.Wrap(ErrMalformedFolds, fmt.Sprintf("fold %d is empty, fold indices must be contiguous from 0", k))
			return zerr.With(err, "fold", k)
		}
	}
	if total < 2 {
		return zerr.With(zerr.Wrap(ErrInvalidFoldCount, "at least 2 folds are required"), "total_folds", total)
	}
	return nil
}

// Splits expands the assignment into one Split per fold, ordered by fold index.
// Indices inside each split are ascending.
func (a FoldAssignment) Splits() ([]Split, error) {
	if err := a.Validate(len(a)); err != nil {
		return nil, err
	}
	total := a.Total()
	splits := make([]Split, total)
	for k := range splits {
		splits[k].Fold = k
	}
	for i, k := range a {
		for j := range splits {
			if j == k {
				splits[j].Validation = append(splits[j].Validation, i)
			} else {
				splits[j].Train = append(splits[j].Train, i)
			}
		}
	}
	return splits, nil
}
