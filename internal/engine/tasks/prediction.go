package tasks

import (
	"context"
	"strconv"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
	"go.trai.ch/sift/internal/engine/cv"
	"go.trai.ch/sift/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// PredictionTaskName names the prediction task and its output directory.
const PredictionTaskName = "prediction_task"

// DefaultPredictionColumn is the name of the binarized prediction column.
const DefaultPredictionColumn = "prediction"

// PredictionConfig configures applying a fitted estimator to new data.
type PredictionConfig struct {
	Loader    ports.DatasetLoader
	Artifacts ports.ArtifactWriter
	Data      domain.DataSource
	// Estimator must already be fitted. It is copied with its fitted state when it supports
	// snapshots (see pipeline.Snapshot) and used as given otherwise.
	Estimator ports.Estimator
	// Columns are the training feature columns. When set, the data is reordered to match.
	Columns []string
	// Threshold binarizes probabilities. Nil means DefaultThreshold.
	Threshold        *float64
	PredictionColumn string
}

// Prediction writes one binarized prediction and its probability per sample.
type Prediction struct {
	cfg       PredictionConfig
	threshold float64
}

// NewPrediction validates cfg.
func NewPrediction(cfg PredictionConfig) (*Prediction, error) {
	const task = PredictionTaskName
	if err := requireIO(task, cfg.Loader, cfg.Artifacts); err != nil {
		return nil, err
	}
	if err := requireSource(task, "predict_data_set", cfg.Data); err != nil {
		return nil, err
	}
	if cfg.Estimator == nil {
		return nil, missingArgument(task, "estimator")
	}
	threshold, err := resolveThreshold(task, cfg.Threshold)
	if err != nil {
		return nil, err
	}
	if cfg.PredictionColumn == "" {
		cfg.PredictionColumn = DefaultPredictionColumn
	}
	if cfg.PredictionColumn == cfg.Data.Options.IDColumn {
		return nil, invalidArgument(task, "prediction_column", cfg.PredictionColumn, "a name different from id_column")
	}

	frozen := cfg
	frozen.Data = cfg.Data.Clone()
	frozen.Columns = append([]string(nil), cfg.Columns...)
	if snapshot, ok := pipeline.Snapshot(cfg.Estimator); ok {
		frozen.Estimator = snapshot
	}
	frozen.Threshold = &threshold
	return &Prediction{cfg: frozen, threshold: threshold}, nil
}

// Name implements ports.Task.
func (t *Prediction) Name() string {
	return PredictionTaskName
}

// Arguments implements ports.Task.
func (t *Prediction) Arguments() map[string]any {
	args := map[string]any{
		"predict_data_set":  t.cfg.Data.Describe(),
		"estimator":         describeEstimator(t.cfg.Estimator),
		"threshold":         t.threshold,
		"prediction_column": t.cfg.PredictionColumn,
	}
	if len(t.cfg.Columns) > 0 {
		args["feature_columns"] = t.cfg.Columns
	}
	return args
}

// Inputs implements ports.InputDeclarer.
func (t *Prediction) Inputs() []string {
	return []string{t.cfg.Data.Path}
}

// Run implements ports.Task.
func (t *Prediction) Run(ctx context.Context, outputDir string) ([]domain.Prediction, error) {
	data, err := t.cfg.Loader.Load(t.cfg.Data.Path, t.cfg.Data.Options)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x := data.Features
	if len(t.cfg.Columns) > 0 {
		if x, err = x.Select(t.cfg.Columns); err != nil {
			return nil, zerr.With(zerr.With(err, "task", PredictionTaskName), "file", t.cfg.Data.Path)
		}
	}
	proba, err := cv.Predict(t.cfg.Estimator, x)
	if err != nil {
		return nil, err
	}
	labels := cv.Binarize(proba, t.threshold)

	out := make([]domain.Prediction, data.Len())
	rows := make([][]string, data.Len())
	for i, id := range data.IDs {
		out[i] = domain.Prediction{ID: id, Label: labels[i], Probability: proba[i]}
		rows[i] = []string{id, strconv.Itoa(labels[i]), cv.FormatFloat(proba[i])}
	}
	header := []string{t.cfg.Data.Options.IDColumn, t.cfg.PredictionColumn, "probability"}
	if err := t.cfg.Artifacts.WriteCSV(outputDir, domain.PredictionsFileName, header, rows); err != nil {
		return nil, err
	}
	return out, nil
}
