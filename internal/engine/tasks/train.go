package tasks

import (
	"context"
	"math"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
	"go.trai.ch/sift/internal/engine/cv"
	"go.trai.ch/sift/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// TrainTaskName names the training task and its output directory.
const TrainTaskName = "train_task"

// DefaultThreshold is the decision threshold used when none is configured or evaluated.
const DefaultThreshold = 0.5

// Training artifacts.
const (
	TrainMetricsFile = "train_threshold_metrics.csv"
	ModelFile        = "model.json"
)

// TrainConfig configures fitting an estimator on the full training set.
type TrainConfig struct {
	Loader    ports.DatasetLoader
	Artifacts ports.ArtifactWriter
	Train     domain.DataSource
	Estimator ports.Estimator
	Params    domain.Params
	// Threshold is used for the reported training metrics. Nil means DefaultThreshold.
	Threshold *float64
}

// TrainResult holds the fitted estimator and its in-sample metrics.
type TrainResult struct {
	Estimator ports.Estimator
	Columns   []string
	Metrics   domain.ThresholdMetrics
}

// model is the JSON description of a trained estimator.
type model struct {
	Estimator map[string]any `json:"estimator"`
	Params    domain.Params  `json:"params,omitempty"`
	Columns   []string       `json:"feature_columns"`
	Threshold float64        `json:"threshold"`
	Samples   int            `json:"samples"`
	Positives int            `json:"positives"`
}

// Train fits a fresh clone of the configured estimator on every training sample.
type Train struct {
	cfg       TrainConfig
	model     ports.Estimator
	threshold float64
}

// NewTrain validates cfg and freezes a copy of it.
func NewTrain(cfg TrainConfig) (*Train, error) {
	const task = TrainTaskName
	if err := requireIO(task, cfg.Loader, cfg.Artifacts); err != nil {
		return nil, err
	}
	if err := requireSource(task, "train_data_set", cfg.Train); err != nil {
		return nil, err
	}
	if err := requireLabels(task, "train_data_set", cfg.Train); err != nil {
		return nil, err
	}
	if cfg.Estimator == nil {
		return nil, missingArgument(task, "estimator")
	}
	threshold, err := resolveThreshold(task, cfg.Threshold)
	if err != nil {
		return nil, err
	}
	est, err := pipeline.Configure(cfg.Estimator, cfg.Params)
	if err != nil {
		return nil, withTask(err, task)
	}

	frozen := cfg
	frozen.Train = cfg.Train.Clone()
	frozen.Estimator = cfg.Estimator.Clone()
	frozen.Params = cfg.Params.Clone()
	frozen.Threshold = &threshold
	return &Train{cfg: frozen, model: est, threshold: threshold}, nil
}

// Name implements ports.Task.
func (t *Train) Name() string {
	return TrainTaskName
}

// Arguments implements ports.Task.
func (t *Train) Arguments() map[string]any {
	return map[string]any{
		"train_data_set":   t.cfg.Train.Describe(),
		"estimator":        describeEstimator(t.cfg.Estimator),
		"estimator_params": t.cfg.Params.Clone(),
		"threshold":        t.threshold,
	}
}

// Inputs implements ports.InputDeclarer.
func (t *Train) Inputs() []string {
	return []string{t.cfg.Train.Path}
}

// Run implements ports.Task.
func (t *Train) Run(ctx context.Context, outputDir string) (TrainResult, error) {
	data, err := loadLabelled(t.cfg.Loader, t.cfg.Train)
	if err != nil {
		return TrainResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return TrainResult{}, err
	}

	est := t.model.Clone()
	if err := est.Fit(data.Features, data.Labels); err != nil {
		return TrainResult{}, err
	}
	proba, err := cv.Predict(est, data.Features)
	if err != nil {
		return TrainResult{}, err
	}
	m, err := cv.ComputeThresholdMetrics(data.Labels, proba, t.threshold)
	if err != nil {
		return TrainResult{}, err
	}

	w := t.cfg.Artifacts
	if err := w.WriteCSV(outputDir, TrainMetricsFile, cv.MetricsHeader(), [][]string{cv.MetricsRow(m)}); err != nil {
		return TrainResult{}, err
	}
	desc := model{
		Estimator: describeEstimator(est),
		Params:    t.cfg.Params,
		Columns:   data.Features.Columns,
		Threshold: t.threshold,
		Samples:   data.Len(),
		Positives: m.TP + m.FN,
	}
	if err := w.WriteJSON(outputDir, ModelFile, desc); err != nil {
		return TrainResult{}, err
	}
	return TrainResult{Estimator: est, Columns: data.Features.Columns, Metrics: m}, nil
}

// resolveThreshold returns the configured threshold or DefaultThreshold.
func resolveThreshold(task string, threshold *float64) (float64, error) {
	if threshold == nil {
		return DefaultThreshold, nil
	}
	t := *threshold
	if math.IsNaN(t) || t < 0 || t > 1 {
		err := zerr.Wrap(domain.ErrInvalidThreshold, task+": threshold must lie in [0, 1]")
		return 0, zerr.With(zerr.With(zerr.With(err, "task", task), "parameter", "threshold"), "value", t)
	}
	return t, nil
}
