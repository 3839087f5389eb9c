package tasks

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
	"go.trai.ch/sift/internal/engine/cv"
	"go.trai.ch/sift/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// FeatureSelectionTaskName names the feature selection task and its output directory.
const FeatureSelectionTaskName = "feature_selection_cross_validation_task"

// Feature selection artifacts.
const (
	FeatureSelectionScoresFile = "feature_selection_scores.csv"
	SelectedFeaturesFile       = "selected_features.txt"
)

// FeatureSelectionConfig configures recursive feature elimination under cross-validation.
type FeatureSelectionConfig struct {
	CrossValidation

	// Estimator must report feature importances once fitted.
	Estimator ports.Estimator
	// Preprocessor is optional. It is fitted on each fold's training indices only.
	Preprocessor ports.Transformer
	MinFeatures  int
	Scoring      domain.ScoringPlan
}

// FeatureSelection eliminates the least important feature one at a time, scores every subset
// size under cross-validation and keeps the best size. Equal scores prefer more features.
type FeatureSelection struct {
	cfg    FeatureSelectionConfig
	scorer cv.Scorer
}

// NewFeatureSelection validates cfg and freezes a copy of it.
func NewFeatureSelection(cfg FeatureSelectionConfig) (*FeatureSelection, error) {
	const task = FeatureSelectionTaskName
	if err := cfg.validate(task); err != nil {
		return nil, err
	}
	if err := requireLabels(task, "train_data_set", cfg.Train); err != nil {
		return nil, err
	}
	if cfg.Estimator == nil {
		return nil, missingArgument(task, "estimator")
	}
	if _, ok := cfg.Estimator.(ports.ImportanceReporter); !ok {
		err := zerr.Wrap(domain.ErrNoImportances, task+": estimator must report feature importances")
		return nil, zerr.With(zerr.With(err, "task", task), "parameter", "estimator")
	}
	if cfg.MinFeatures < 1 {
		return nil, invalidArgument(task, "min_features_to_select", cfg.MinFeatures, ">= 1")
	}
	scorer, err := cv.NewScorer(cfg.Scoring)
	if err != nil {
		return nil, withTask(err, task)
	}

	frozen := cfg
	frozen.CrossValidation = cfg.clone()
	frozen.Estimator = cfg.Estimator.Clone()
	if cfg.Preprocessor != nil {
		frozen.Preprocessor = cfg.Preprocessor.Clone()
	}
	return &FeatureSelection{cfg: frozen, scorer: scorer}, nil
}

// Name implements ports.Task.
func (t *FeatureSelection) Name() string {
	return FeatureSelectionTaskName
}

// Arguments implements ports.Task.
func (t *FeatureSelection) Arguments() map[string]any {
	args := map[string]any{
		"estimator":              describeEstimator(t.cfg.Estimator),
		"min_features_to_select": t.cfg.MinFeatures,
		"scoring":                t.scorer.Describe(),
	}
	if t.cfg.Preprocessor != nil {
		args["preprocessor"] = pipeline.Describe(t.cfg.Preprocessor)
	}
	return t.cfg.describe(args)
}

// Inputs implements ports.InputDeclarer.
func (t *FeatureSelection) Inputs() []string {
	return t.cfg.inputs()
}

// Run implements ports.Task.
func (t *FeatureSelection) Run(ctx context.Context, outputDir string) (domain.FeatureSelectionResult, error) {
	data, err := loadLabelled(t.cfg.Loader, t.cfg.Train)
	if err != nil {
		return domain.FeatureSelectionResult{}, err
	}
	splits, err := cv.Splits(t.cfg.Folds, data)
	if err != nil {
		return domain.FeatureSelectionResult{}, err
	}

	paths, err := cv.ForEachFold(ctx, splits, t.cfg.Parallelism, func(_ context.Context, split domain.Split) ([]float64, error) {
		return t.foldPath(data, split)
	})
	if err != nil {
		return domain.FeatureSelectionResult{}, err
	}

	for k, path := range paths {
		if len(path) != len(paths[0]) {
			err := zerr.Wrap(domain.ErrShapeMismatch,
				fmt.Sprintf("%s: fold %d produced %d features after preprocessing, fold 0 produced %d",
					FeatureSelectionTaskName, k, t.cfg.MinFeatures+len(path)-1, t.cfg.MinFeatures+len(paths[0])-1))
			return domain.FeatureSelectionResult{}, zerr.With(err, "task", FeatureSelectionTaskName)
		}
	}
	scores := t.aggregate(paths)
	best := t.best(scores)

	full, err := t.preprocess(data.Features, data.Labels)
	if err != nil {
		return domain.FeatureSelectionResult{}, err
	}
	kept, err := t.eliminate(full, data.Labels, scores[best].Count, nil)
	if err != nil {
		return domain.FeatureSelectionResult{}, err
	}
	selected := make([]string, len(kept))
	for i, j := range kept {
		selected[i] = full.Columns[j]
	}

	res := domain.FeatureSelectionResult{Selected: selected, Scores: scores}
	if err := t.export(outputDir, res, len(splits)); err != nil {
		return domain.FeatureSelectionResult{}, err
	}
	return res, nil
}

// foldPath returns the validation score of every subset size visited on one fold, indexed by
// the number of removed features.
func (t *FeatureSelection) foldPath(data *domain.Dataset, split domain.Split) ([]float64, error) {
	prep := t.cfg.Preprocessor
	if prep != nil {
		prep = prep.Clone()
	}
	train, val := data.Subset(split.Train), data.Subset(split.Validation)

	trainX, valX := train.Features, val.Features
	if prep != nil {
		var err error
		if trainX, err = fitTransform(prep, trainX, train.Labels); err != nil {
			return nil, err
		}
		if valX, err = prep.Transform(valX); err != nil {
			return nil, err
		}
	}
	if err := t.checkWidth(trainX.Width()); err != nil {
		return nil, err
	}
	if err := checkFinite(trainX, valX); err != nil {
		return nil, err
	}

	var path []float64
	_, err := t.eliminate(trainX, train.Labels, t.cfg.MinFeatures, func(model ports.Estimator, kept []int) error {
		x, err := valX.Select(columnNames(trainX, kept))
		if err != nil {
			return err
		}
		proba, err := cv.Predict(model, x)
		if err != nil {
			return err
		}
		score, err := t.scorer.Score(val.Labels, proba)
		if err != nil {
			return err
		}
		path = append(path, score)
		return nil
	})
	return path, err
}

// eliminate removes features one at a time, fitting the estimator on the remaining columns,
// until target features remain. visit is called after every fit, with the model and the
// remaining column positions.
func (t *FeatureSelection) eliminate(
	x domain.Features,
	y []int,
	target int,
	visit func(model ports.Estimator, kept []int) error,
) ([]int, error) {
	kept := make([]int, x.Width())
	for j := range kept {
		kept[j] = j
	}
	for {
		if len(kept) == target && visit == nil {
			return kept, nil
		}
		sub, err := x.Select(columnNames(x, kept))
		if err != nil {
			return nil, err
		}
		model := t.cfg.Estimator.Clone()
		if err := model.Fit(sub, y); err != nil {
			return nil, err
		}
		if visit != nil {
			if err := visit(model, kept); err != nil {
				return nil, err
			}
		}
		if len(kept) <= target {
			return kept, nil
		}
		importances, err := model.(ports.ImportanceReporter).FeatureImportances()
		if err != nil {
			return nil, err
		}
		if len(importances) != len(kept) {
			err := zerr.Wrap(domain.ErrShapeMismatch,
				fmt.Sprintf("estimator reported %d importances for %d features", len(importances), len(kept)))
			return nil, zerr.With(err, "task", FeatureSelectionTaskName)
		}
		drop := weakest(importances)
		kept = slices.Delete(kept, drop, drop+1)
	}
}

// weakest returns the position of the smallest absolute importance; ties pick the first.
func weakest(importances []float64) int {
	idx := 0
	for i, v := range importances {
		if math.Abs(v) < math.Abs(importances[idx]) {
			idx = i
		}
	}
	return idx
}

func (t *FeatureSelection) checkWidth(width int) error {
	if t.cfg.MinFeatures > width {
		err := zerr.Wrap(domain.ErrInvalidArgument,
			fmt.Sprintf("%s: min_features_to_select=%d exceeds the %d available features", FeatureSelectionTaskName, t.cfg.MinFeatures, width))
		return zerr.With(zerr.With(err, "task", FeatureSelectionTaskName), "parameter", "min_features_to_select")
	}
	return nil
}

func (t *FeatureSelection) preprocess(x domain.Features, y []int) (domain.Features, error) {
	out := x
	if t.cfg.Preprocessor != nil {
		var err error
		if out, err = fitTransform(t.cfg.Preprocessor.Clone(), x, y); err != nil {
			return domain.Features{}, err
		}
	}
	if err := t.checkWidth(out.Width()); err != nil {
		return domain.Features{}, err
	}
	return out, checkFinite(out)
}

// aggregate averages the per-fold paths. Entry i of a path scores width-i features.
func (t *FeatureSelection) aggregate(paths [][]float64) []domain.FeatureCountScore {
	steps := len(paths[0])
	width := t.cfg.MinFeatures + steps - 1
	scores := make([]domain.FeatureCountScore, steps)
	for i := range steps {
		fold := make([]float64, len(paths))
		for k, path := range paths {
			fold[k] = path[i]
		}
		mean, std := cv.MeanStd(fold)
		scores[i] = domain.FeatureCountScore{Count: width - i, MeanScore: mean, StdScore: std, FoldScores: fold}
	}
	return scores
}

// best returns the position of the best mean score. Scores are ordered from most to fewest
// features, so keeping the first of equal scores prefers larger subsets.
func (t *FeatureSelection) best(scores []domain.FeatureCountScore) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if t.scorer.Better(scores[i].MeanScore, scores[best].MeanScore) {
			best = i
		}
	}
	return best
}

func (t *FeatureSelection) export(dir string, res domain.FeatureSelectionResult, folds int) error {
	header := foldScoreHeader([]string{"n_features", "mean_score", "std_score"}, folds)
	rows := make([][]string, len(res.Scores))
	for i, s := range res.Scores {
		row := []string{strconv.Itoa(s.Count), cv.FormatFloat(s.MeanScore), cv.FormatFloat(s.StdScore)}
		rows[i] = append(row, foldScoreCells(s.FoldScores)...)
	}
	if err := t.cfg.Artifacts.WriteCSV(dir, FeatureSelectionScoresFile, header, rows); err != nil {
		return err
	}
	return t.cfg.Artifacts.WriteText(dir, SelectedFeaturesFile, strings.Join(res.Selected, "\n")+"\n")
}

func fitTransform(t ports.Transformer, x domain.Features, y []int) (domain.Features, error) {
	if err := t.Fit(x, y); err != nil {
		return domain.Features{}, err
	}
	return t.Transform(x)
}

func checkFinite(sets ...domain.Features) error {
	for _, x := range sets {
		if err := x.CheckFinite(); err != nil {
			return zerr.With(err, "stage", "after preprocessing")
		}
	}
	return nil
}

func columnNames(x domain.Features, positions []int) []string {
	out := make([]string, len(positions))
	for i, j := range positions {
		out[i] = x.Columns[j]
	}
	return out
}
