// Package tasks implements the reproducible experiment tasks: feature selection, hyper-parameter
// search and evaluation under cross-validation, training and prediction.
package tasks

import (
	"fmt"
	"slices"
	"strconv"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
	"go.trai.ch/sift/internal/engine/cv"
	"go.trai.ch/sift/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// CrossValidation holds the inputs shared by every cross-validation task.
type CrossValidation struct {
	Loader      ports.DatasetLoader
	Artifacts   ports.ArtifactWriter
	Train       domain.DataSource
	Folds       cv.FoldStrategy
	Parallelism int
}

func (c CrossValidation) validate(task string) error {
	if err := requireIO(task, c.Loader, c.Artifacts); err != nil {
		return err
	}
	if err := requireSource(task, "train_data_set", c.Train); err != nil {
		return err
	}
	if c.Folds == nil {
		err := zerr.Wrap(domain.ErrFoldStrategyMissing, task+": call stratified or custom folds before running")
		return zerr.With(zerr.With(err, "task", task), "parameter", "folds")
	}
	if c.Parallelism < 0 {
		return invalidArgument(task, "parallelism", c.Parallelism, ">= 0")
	}
	return nil
}

func (c CrossValidation) clone() CrossValidation {
	c.Train = c.Train.Clone()
	return c
}

func (c CrossValidation) describe(args map[string]any) map[string]any {
	args["train_data_set"] = c.Train.Describe()
	args["folds"] = c.Folds.Describe()
	args["parallelism"] = max(c.Parallelism, 1)
	return args
}

func (c CrossValidation) inputs() []string {
	paths := []string{c.Train.Path}
	if d, ok := c.Folds.(ports.InputDeclarer); ok {
		paths = append(paths, d.Inputs()...)
	}
	return paths
}

// loadLabelled reads a data set that must carry binary labels.
func loadLabelled(loader ports.DatasetLoader, src domain.DataSource) (*domain.Dataset, error) {
	data, err := loader.Load(src.Path, src.Options)
	if err != nil {
		return nil, err
	}
	if err := data.CheckBinaryLabels(); err != nil {
		return nil, zerr.With(err, "file", src.Path)
	}
	return data, nil
}

func requireIO(task string, loader ports.DatasetLoader, artifacts ports.ArtifactWriter) error {
	if loader == nil {
		return missingArgument(task, "loader")
	}
	if artifacts == nil {
		return missingArgument(task, "artifacts")
	}
	return nil
}

func requireSource(task, parameter string, src domain.DataSource) error {
	if src.Path == "" {
		return missingArgument(task, parameter)
	}
	if src.Options.IDColumn == "" {
		return missingArgument(task, "id_column")
	}
	return nil
}

func requireLabels(task, parameter string, src domain.DataSource) error {
	if src.Options.LabelColumn == "" {
		err := zerr.Wrap(domain.ErrMissingArgument, fmt.Sprintf("%s: %s requires label_column", task, parameter))
		return zerr.With(zerr.With(err, "task", task), "parameter", "label_column")
	}
	return nil
}

func missingArgument(task, parameter string) error {
	err := zerr.Wrap(domain.ErrMissingArgument, fmt.Sprintf("%s: %s is required", task, parameter))
	return zerr.With(zerr.With(err, "task", task), "parameter", parameter)
}

func invalidArgument(task, parameter string, value any, expected string) error {
	err := zerr.Wrap(domain.ErrInvalidArgument, fmt.Sprintf("%s: %s=%v, expected %s", task, parameter, value, expected))
	return zerr.With(zerr.With(zerr.With(err, "task", task), "parameter", parameter), "expected", expected)
}

// withTask attaches the task name to a constructor error.
func withTask(err error, task string) error {
	if err == nil {
		return nil
	}
	return zerr.With(zerr.Wrap(err, task), "task", task)
}

func describeEstimator(est ports.Estimator) map[string]any {
	return pipeline.Describe(est)
}

func foldScoreHeader(prefix []string, folds int) []string {
	header := slices.Clone(prefix)
	for k := range folds {
		header = append(header, "split"+strconv.Itoa(k)+"_score")
	}
	return header
}

func foldScoreCells(scores []float64) []string {
	out := make([]string, len(scores))
	for i, s := range scores {
		out[i] = cv.FormatFloat(s)
	}
	return out
}
