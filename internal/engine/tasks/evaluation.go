package tasks

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strconv"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
	"go.trai.ch/sift/internal/engine/cv"
	"go.trai.ch/sift/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// EvaluationTaskName names the evaluation task and its output directory.
const EvaluationTaskName = "evaluation_cross_validation_task"

// SelectionFixed is reported as the selection rule when a fixed threshold is configured.
const SelectionFixed = "fixed"

// Evaluation artifacts, always written.
const (
	ThresholdSweepFile            = "threshold_sweep.csv"
	CVSplitsMetricsFile           = "cv_splits_threshold_metrics.csv"
	CVSplitsMetricsSummaryFile    = "cv_splits_threshold_metrics_summary.csv"
	CVMetricsFile                 = "cv_threshold_metrics.csv"
	TestMetricsFile               = "test_threshold_metrics.csv"
	TrainSplitsMetricsFile        = "train_splits_threshold_metrics.csv"
	TrainSplitsMetricsSummaryFile = "train_splits_threshold_metrics_summary.csv"
	EvaluationFile                = "evaluation.json"
)

// Per-partition evaluation exports, each toggled by domain.ExportFlags.
const (
	ClassificationReportFile = "classification_report.txt"
	ConfusionMatrixFile      = "confusion_matrix.csv"
	PRCurveFile              = "pr_curve.csv"
	ROCCurveFile             = "roc_curve.csv"
	FalsePositivesFile       = "false_positives.csv"
	FalseNegativesFile       = "false_negatives.csv"
)

// EvaluationConfig configures cross-validated evaluation with threshold selection.
type EvaluationConfig struct {
	CrossValidation

	// Test is an optional held-out data set scored once with the selected threshold.
	Test      *domain.DataSource
	Estimator ports.Estimator
	// Params are optional fixed hyper-parameters applied to a clone of Estimator.
	Params domain.Params

	// SelectionBy is the metric maximized over the validation-fold means. Defaults to f1.
	SelectionBy string
	// FixedThreshold skips selection when set.
	FixedThreshold *float64
	// ThresholdStep is the spacing of the candidate thresholds. Defaults to 0.01.
	ThresholdStep float64
	Exports       domain.ExportFlags
}

// Evaluation selects a decision threshold on validation folds and reports metrics at it.
// A test set never influences the selected threshold.
type Evaluation struct {
	cfg   EvaluationConfig
	model ports.Estimator
	grid  []float64
}

// NewEvaluation validates cfg and freezes a copy of it.
func NewEvaluation(cfg EvaluationConfig) (*Evaluation, error) {
	const task = EvaluationTaskName
	if err := cfg.validate(task); err != nil {
		return nil, err
	}
	if err := requireLabels(task, "train_data_set", cfg.Train); err != nil {
		return nil, err
	}
	if cfg.Test != nil {
		if err := requireSource(task, "test_data_set", *cfg.Test); err != nil {
			return nil, err
		}
		if err := requireLabels(task, "test_data_set", *cfg.Test); err != nil {
			return nil, err
		}
	}
	if cfg.Estimator == nil {
		return nil, missingArgument(task, "estimator")
	}

	if cfg.SelectionBy == "" {
		cfg.SelectionBy = domain.MetricF1
	}
	if !slices.Contains(cv.SelectionMetrics, cfg.SelectionBy) {
		err := zerr.Wrap(domain.ErrUnknownMetric, fmt.Sprintf("%s: threshold_selection_by %q is not supported", task, cfg.SelectionBy))
		return nil, zerr.With(zerr.With(zerr.With(err, "task", task), "parameter", "threshold_selection_by"), "expected", cv.SelectionMetrics)
	}
	if cfg.FixedThreshold != nil {
		if _, err := resolveThreshold(task, cfg.FixedThreshold); err != nil {
			return nil, err
		}
	}
	if cfg.ThresholdStep == 0 {
		cfg.ThresholdStep = cv.DefaultThresholdStep
	}
	grid, err := cv.ThresholdGrid(cfg.ThresholdStep)
	if err != nil {
		return nil, withTask(err, task)
	}
	model, err := pipeline.Configure(cfg.Estimator, cfg.Params)
	if err != nil {
		return nil, withTask(err, task)
	}

	frozen := cfg
	frozen.CrossValidation = cfg.clone()
	frozen.Estimator = cfg.Estimator.Clone()
	frozen.Params = cfg.Params.Clone()
	if cfg.Test != nil {
		test := cfg.Test.Clone()
		frozen.Test = &test
	}
	if cfg.FixedThreshold != nil {
		fixed := *cfg.FixedThreshold
		frozen.FixedThreshold = &fixed
	}
	return &Evaluation{cfg: frozen, model: model, grid: grid}, nil
}

// Name implements ports.Task.
func (t *Evaluation) Name() string {
	return EvaluationTaskName
}

// Arguments implements ports.Task.
func (t *Evaluation) Arguments() map[string]any {
	args := map[string]any{
		"estimator":              describeEstimator(t.cfg.Estimator),
		"estimator_params":       t.cfg.Params.Clone(),
		"threshold_selection_by": t.cfg.SelectionBy,
		"threshold_step":         t.cfg.ThresholdStep,
		"exports":                t.cfg.Exports,
	}
	if t.cfg.FixedThreshold != nil {
		args["threshold"] = *t.cfg.FixedThreshold
	}
	if t.cfg.Test != nil {
		args["test_data_set"] = t.cfg.Test.Describe()
	}
	return t.cfg.describe(args)
}

// Inputs implements ports.InputDeclarer.
func (t *Evaluation) Inputs() []string {
	paths := t.cfg.inputs()
	if t.cfg.Test != nil {
		paths = append(paths, t.cfg.Test.Path)
	}
	return paths
}

// Run implements ports.Task.
func (t *Evaluation) Run(ctx context.Context, outputDir string) (domain.EvaluationResult, error) {
	data, err := loadLabelled(t.cfg.Loader, t.cfg.Train)
	if err != nil {
		return domain.EvaluationResult{}, err
	}
	splits, err := cv.Splits(t.cfg.Folds, data)
	if err != nil {
		return domain.EvaluationResult{}, err
	}

	withTrain := t.cfg.Exports.AlsoForTrainFolds
	preds, err := cv.CrossValPredict(ctx, t.model, data, splits, t.cfg.Parallelism, withTrain)
	if err != nil {
		return domain.EvaluationResult{}, err
	}

	sweeps := make([][]domain.ThresholdMetrics, len(preds))
	for k, p := range preds {
		if sweeps[k], err = cv.Sweep(labelsAt(data, p.Split.Validation), p.Validation, t.grid); err != nil {
			return domain.EvaluationResult{}, err
		}
	}
	summaries := cv.SweepSummaries(t.grid, sweeps)

	res := domain.EvaluationResult{SelectionBy: t.cfg.SelectionBy}
	if t.cfg.FixedThreshold != nil {
		res.Threshold = *t.cfg.FixedThreshold
		res.SelectionBy = SelectionFixed
	} else {
		best, err := cv.SelectThreshold(summaries, t.cfg.SelectionBy)
		if err != nil {
			return domain.EvaluationResult{}, err
		}
		res.Threshold = t.grid[best]
	}

	if err := t.scoreFolds(outputDir, data, preds, &res); err != nil {
		return domain.EvaluationResult{}, err
	}
	if t.cfg.Test != nil {
		test, err := t.scoreTest(outputDir, data, res.Threshold)
		if err != nil {
			return domain.EvaluationResult{}, err
		}
		res.Test = &test
	}

	if err := t.export(outputDir, summaries, res); err != nil {
		return domain.EvaluationResult{}, err
	}
	return res, nil
}

// scoreFolds computes validation and, if requested, training metrics at the selected threshold.
func (t *Evaluation) scoreFolds(dir string, data *domain.Dataset, preds []cv.FoldPrediction, res *domain.EvaluationResult) error {
	var pooledLabels []int
	var pooledProba []float64
	validation := make([]domain.ThresholdMetrics, len(preds))
	var train []domain.ThresholdMetrics

	for k, p := range preds {
		labels := labelsAt(data, p.Split.Validation)
		m, err := cv.ComputeThresholdMetrics(labels, p.Validation, res.Threshold)
		if err != nil {
			return err
		}
		validation[k] = m
		res.Folds = append(res.Folds, domain.FoldMetrics{Fold: p.Split.Fold, Metrics: m})
		pooledLabels = append(pooledLabels, labels...)
		pooledProba = append(pooledProba, p.Validation...)

		partition := domain.FoldExportDir(p.Split.Fold, "validation")
		if err := t.exportPartition(dir, partition, idsAt(data, p.Split.Validation), labels, p.Validation, m); err != nil {
			return err
		}

		if p.Train == nil {
			continue
		}
		trainLabels := labelsAt(data, p.Split.Train)
		tm, err := cv.ComputeThresholdMetrics(trainLabels, p.Train, res.Threshold)
		if err != nil {
			return err
		}
		train = append(train, tm)
		res.TrainFolds = append(res.TrainFolds, domain.FoldMetrics{Fold: p.Split.Fold, Metrics: tm})

		partition = domain.FoldExportDir(p.Split.Fold, "train")
		if err := t.exportPartition(dir, partition, idsAt(data, p.Split.Train), trainLabels, p.Train, tm); err != nil {
			return err
		}
	}

	res.Summary = cv.Summarize(res.Threshold, validation)
	if train != nil {
		summary := cv.Summarize(res.Threshold, train)
		res.TrainSummary = &summary
	}

	pooled, err := cv.ComputeThresholdMetrics(pooledLabels, pooledProba, res.Threshold)
	if err != nil {
		return err
	}
	res.CrossValidation = pooled
	return nil
}

// scoreTest refits on the full training set and scores the test set at an already selected threshold.
func (t *Evaluation) scoreTest(dir string, train *domain.Dataset, threshold float64) (domain.ThresholdMetrics, error) {
	test, err := loadLabelled(t.cfg.Loader, *t.cfg.Test)
	if err != nil {
		return domain.ThresholdMetrics{}, err
	}
	x, err := test.Features.Select(train.Features.Columns)
	if err != nil {
		return domain.ThresholdMetrics{}, zerr.With(zerr.With(err, "task", EvaluationTaskName), "parameter", "test_data_set")
	}

	model := t.model.Clone()
	if err := model.Fit(train.Features, train.Labels); err != nil {
		return domain.ThresholdMetrics{}, err
	}
	proba, err := cv.Predict(model, x)
	if err != nil {
		return domain.ThresholdMetrics{}, err
	}
	m, err := cv.ComputeThresholdMetrics(test.Labels, proba, threshold)
	if err != nil {
		return domain.ThresholdMetrics{}, err
	}
	if err := t.exportPartition(dir, domain.TestDirName, test.IDs, test.Labels, proba, m); err != nil {
		return domain.ThresholdMetrics{}, err
	}
	return m, nil
}

func (t *Evaluation) export(dir string, summaries []domain.MetricsSummary, res domain.EvaluationResult) error {
	w := t.cfg.Artifacts

	sweep := make([][]string, len(summaries))
	for i, s := range summaries {
		sweep[i] = cv.SummaryRow(s)
	}
	if err := w.WriteCSV(dir, ThresholdSweepFile, cv.SummaryHeader(), sweep); err != nil {
		return err
	}
	if err := w.WriteCSV(dir, CVSplitsMetricsFile, cv.MetricsHeader("fold"), foldRows(res.Folds)); err != nil {
		return err
	}
	if err := w.WriteCSV(dir, CVSplitsMetricsSummaryFile, cv.SummaryHeader(), [][]string{cv.SummaryRow(res.Summary)}); err != nil {
		return err
	}
	if err := w.WriteCSV(dir, CVMetricsFile, cv.MetricsHeader(), [][]string{cv.MetricsRow(res.CrossValidation)}); err != nil {
		return err
	}
	if res.TrainSummary != nil {
		if err := w.WriteCSV(dir, TrainSplitsMetricsFile, cv.MetricsHeader("fold"), foldRows(res.TrainFolds)); err != nil {
			return err
		}
		if err := w.WriteCSV(dir, TrainSplitsMetricsSummaryFile, cv.SummaryHeader(), [][]string{cv.SummaryRow(*res.TrainSummary)}); err != nil {
			return err
		}
	}
	if res.Test != nil {
		if err := w.WriteCSV(dir, TestMetricsFile, cv.MetricsHeader(), [][]string{cv.MetricsRow(*res.Test)}); err != nil {
			return err
		}
	}
	return w.WriteJSON(dir, EvaluationFile, res)
}

// exportPartition writes the enabled per-partition exports under dir/partition.
func (t *Evaluation) exportPartition(dir, partition string, ids []string, labels []int, proba []float64, m domain.ThresholdMetrics) error {
	flags := t.cfg.Exports
	w := t.cfg.Artifacts
	name := func(file string) string { return path.Join(partition, file) }

	if flags.ClassificationReports {
		if err := w.WriteText(dir, name(ClassificationReportFile), cv.ClassificationReport(m)); err != nil {
			return err
		}
	}
	if flags.ConfusionMatrices {
		header, rows := cv.ConfusionMatrixCSV(m)
		if err := w.WriteCSV(dir, name(ConfusionMatrixFile), header, rows); err != nil {
			return err
		}
	}
	if flags.PRCurves {
		header, rows := cv.CurveCSV(cv.PRCurve(labels, proba), "recall", "precision")
		if err := w.WriteCSV(dir, name(PRCurveFile), header, rows); err != nil {
			return err
		}
	}
	if flags.ROCCurves {
		header, rows := cv.CurveCSV(cv.ROCCurve(labels, proba), "fpr", "tpr")
		if err := w.WriteCSV(dir, name(ROCCurveFile), header, rows); err != nil {
			return err
		}
	}
	if flags.FalsePositives {
		rows := misclassified(ids, labels, proba, m.Threshold, 0)
		if err := w.WriteCSV(dir, name(FalsePositivesFile), []string{"id", "label", "probability"}, rows); err != nil {
			return err
		}
	}
	if flags.FalseNegatives {
		rows := misclassified(ids, labels, proba, m.Threshold, 1)
		if err := w.WriteCSV(dir, name(FalseNegativesFile), []string{"id", "label", "probability"}, rows); err != nil {
			return err
		}
	}
	return nil
}

// misclassified lists the samples of class label whose prediction at threshold is wrong.
func misclassified(ids []string, labels []int, proba []float64, threshold float64, label int) [][]string {
	rows := [][]string{}
	predicted := cv.Binarize(proba, threshold)
	for i, y := range labels {
		if y == label && predicted[i] != y {
			rows = append(rows, []string{ids[i], strconv.Itoa(y), cv.FormatFloat(proba[i])})
		}
	}
	return rows
}

func foldRows(folds []domain.FoldMetrics) [][]string {
	rows := make([][]string, len(folds))
	for i, f := range folds {
		rows[i] = cv.MetricsRow(f.Metrics, strconv.Itoa(f.Fold))
	}
	return rows
}

func labelsAt(data *domain.Dataset, indices []int) []int {
	out := make([]int, len(indices))
	for i, idx := range indices {
		out[i] = data.Labels[idx]
	}
	return out
}

func idsAt(data *domain.Dataset, indices []int) []string {
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = data.IDs[idx]
	}
	return out
}
